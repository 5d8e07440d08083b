package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/doccart/pkg/config"
	"github.com/angelmondragon/doccart/pkg/logger"
)

// CartSession resolves the caller's cart session from its cookie, issuing a
// fresh one when the cookie is missing or malformed. The cookie is refreshed
// on every request so it expires together with the stored cart.
func CartSession(cfg config.CartConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	name := cfg.CookieName
	if name == "" {
		name = "doccart_session"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if c, err := r.Cookie(name); err == nil {
				if id, err := uuid.Parse(c.Value); err == nil {
					sessionID = id.String()
				}
			}
			issued := sessionID == ""
			if issued {
				sessionID = uuid.NewString()
			}

			cookie := &http.Cookie{
				Name:     name,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				Secure:   cfg.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			}
			if cfg.SessionTTL > 0 {
				cookie.MaxAge = int(cfg.SessionTTL / time.Second)
			}
			http.SetCookie(w, cookie)

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
				if issued {
					logg.Debug(ctx, "cart.session_issued")
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
