package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/doccart/api/controllers"
	cartcontrollers "github.com/angelmondragon/doccart/api/controllers/cart"
	"github.com/angelmondragon/doccart/api/middleware"
	"github.com/angelmondragon/doccart/internal/cart"
	"github.com/angelmondragon/doccart/pkg/config"
	"github.com/angelmondragon/doccart/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	cartService cart.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    dbP,
			"redis": redisP,
		}))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/cart", func(r chi.Router) {
		r.Use(middleware.CartSession(cfg.Cart, logg))

		r.Post("/add/{documentID}", cartcontrollers.CartAdd(cartService, logg))
		r.Post("/deduct/{documentID}", cartcontrollers.CartDeduct(cartService, logg))
		r.Post("/remove/{documentID}", cartcontrollers.CartRemove(cartService, logg))
		r.Get("/view", cartcontrollers.CartView(cartService, logg))
		r.Post("/items", cartcontrollers.CartUpdateItems(cartService, logg))
		r.Put("/receiver", cartcontrollers.CartSetReceiver(cartService, logg))
		r.Post("/submit", cartcontrollers.CartSubmit(cartService, logg))
		r.Get("/submissions/{submissionID}", cartcontrollers.CartSubmission(cartService, logg))
		r.Delete("/", cartcontrollers.CartEmpty(cartService, logg))
	})

	return r
}
