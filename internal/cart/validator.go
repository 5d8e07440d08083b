package cart

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/doccart/internal/documents"
)

const msgNotAllowed = "You are not allowed to add this document"

// ValidationResult collects rule failures. Failures are data, never errors.
type ValidationResult struct {
	errors []string
}

// Error appends a failure message.
func (r *ValidationResult) Error(message string) {
	r.errors = append(r.errors, message)
}

func (r *ValidationResult) Valid() bool {
	return len(r.errors) == 0
}

func (r *ValidationResult) Errors() []string {
	out := make([]string, len(r.errors))
	copy(out, r.errors)
	return out
}

// StarredList renders the messages one per line, each prefixed with " * ".
func (r *ValidationResult) StarredList() string {
	lines := make([]string, len(r.errors))
	for i, msg := range r.errors {
		lines[i] = " * " + msg
	}
	return strings.Join(lines, "\n")
}

// Rule inspects a requested quantity of doc and records failures on result.
type Rule func(quantity int, doc *documents.Document, result *ValidationResult)

// AllowedInCartRule rejects documents that cannot be requested.
func AllowedInCartRule(_ int, doc *documents.Document, result *ValidationResult) {
	if !doc.IsAllowedInCart() {
		result.Error(msgNotAllowed)
	}
}

// QuantityLimitRule rejects quantities above a capped document's maximum.
func QuantityLimitRule(quantity int, doc *documents.Document, result *ValidationResult) {
	if !doc.QuantityLimited() || quantity <= doc.MaximumQuantity {
		return
	}
	result.Error(fmt.Sprintf(
		`Maximum of %d documents exceeded for "%s", please select a lower quantity.`,
		doc.MaximumQuantity, doc.Title,
	))
}

// Validator runs the built-in rules followed by any extra ones.
type Validator struct {
	rules []Rule
}

func NewValidator(extra ...Rule) *Validator {
	rules := []Rule{AllowedInCartRule, QuantityLimitRule}
	for _, rule := range extra {
		if rule != nil {
			rules = append(rules, rule)
		}
	}
	return &Validator{rules: rules}
}

// Validate runs every rule. It never stops at the first failure.
func (v *Validator) Validate(quantity int, doc *documents.Document) *ValidationResult {
	result := &ValidationResult{}
	for _, rule := range v.rules {
		rule(quantity, doc, result)
	}
	return result
}
