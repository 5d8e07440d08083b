package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/doccart/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ParseUUIDParam reads a chi URL parameter as a UUID.
func ParseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter is required").WithDetails(map[string]any{"field": key})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "path parameter must be a uuid").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}

// FormBracketMap collects form fields shaped like prefix[key]=value.
func FormBracketMap(r *http.Request, prefix string) (map[string]string, error) {
	if err := r.ParseForm(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}
	out := map[string]string{}
	open := prefix + "["
	for field, values := range r.PostForm {
		if !strings.HasPrefix(field, open) || !strings.HasSuffix(field, "]") || len(values) == 0 {
			continue
		}
		key := field[len(open) : len(field)-1]
		if key == "" {
			continue
		}
		out[key] = values[len(values)-1]
	}
	return out, nil
}
