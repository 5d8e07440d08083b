package cart

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/angelmondragon/doccart/api/middleware"
	cartsvc "github.com/angelmondragon/doccart/internal/cart"
	pkgerrors "github.com/angelmondragon/doccart/pkg/errors"
)

const (
	flashCookie = "doccart_flash"
	flashMaxAge = 300
)

// wantsJSON reports whether the caller is a script expecting a JSON body
// rather than a redirect.
func wantsJSON(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "application/json")
}

func sessionFromRequest(r *http.Request) (string, error) {
	sessionID := middleware.CartSessionFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart session missing")
	}
	return sessionID, nil
}

// quantityParam reads the quantity request variable. Missing or non-numeric
// values mean one.
func quantityParam(r *http.Request) int {
	qty, ok := cartsvc.ParseQuantity(r.FormValue("quantity"))
	if !ok || qty == 0 {
		return 1
	}
	return qty
}

// backTarget picks where a browser caller returns to: a relative back URL,
// then a same-host Referer, then "/".
func backTarget(r *http.Request, backURL string) string {
	if cartsvc.IsRelativeURL(backURL) {
		return backURL
	}
	if ref := r.Referer(); ref != "" {
		if u, err := url.Parse(ref); err == nil && (u.Host == "" || strings.EqualFold(u.Host, r.Host)) {
			if target := u.RequestURI(); cartsvc.IsRelativeURL(target) {
				return target
			}
		}
	}
	return "/"
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func setFlash(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash returns the pending flash message and clears it.
func takeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return ""
	}
	return string(raw)
}

// quantityString turns a decoded JSON value into the form representation.
// Anything but numbers and strings becomes non-numeric.
func quantityString(v any) string {
	switch value := v.(type) {
	case json.Number:
		return value.String()
	case string:
		return value
	}
	return ""
}
