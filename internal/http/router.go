package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/auth"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/realtime"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Cart      *CartHandler
	Orders    *OrderHandler
	Menu      *MenuHandler
	AI        *AIHandler
	Analytics *AnalyticsHandler
	Hub       *realtime.Hub
	Issuer    *auth.TokenIssuer
}

func NewRouter(h Handlers, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// The websocket upgrade must not run under the request timeout; the
	// connection is long-lived.
	r.Get("/ws", h.Hub.ServeWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		// Public routes.
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Get("/canteens", h.Menu.ListCanteens)
		r.Get("/canteens/{canteen_id}", h.Menu.GetCanteen)
		r.Get("/canteens/{canteen_id}/menu", h.Menu.ListMenu)
		r.Get("/menu/{item_id}", h.Menu.GetItem)

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(h.Issuer.Middleware)

			r.Get("/auth/me", h.Auth.Me)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(domain.RoleStudent))

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", h.Cart.GetCart)
					r.Delete("/", h.Cart.ClearCart)
					r.Post("/items", h.Cart.AddItem)
					r.Put("/items/{item_id}", h.Cart.UpdateQuantity)
					r.Delete("/items/{item_id}", h.Cart.RemoveItem)
				})

				r.Post("/orders/checkout", h.Orders.Checkout)
				r.Post("/orders/verify-payment", h.Orders.VerifyPayment)
				r.Get("/orders", h.Orders.MyOrders)

				r.Get("/ai/recommendations", h.AI.Recommendations)
				r.Post("/ai/symptom", h.AI.Symptom)
				r.Post("/ai/diet-plan", h.AI.DietPlan)
				r.Get("/ai/protein-knapsack", h.AI.ProteinKnapsack)

				r.Get("/analytics/spending", h.Analytics.MySpending)
				r.Get("/bills", h.Analytics.MyBills)
			})

			r.Get("/orders/{order_id}", h.Orders.GetOrder)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(domain.RoleCrew, domain.RoleManagement))

				r.Get("/orders/pending/{canteen_id}", h.Orders.PendingForCanteen)
				r.Patch("/orders/{order_id}/status", h.Orders.UpdateStatus)
				r.Post("/menu/items", h.Menu.CreateItem)
				r.Patch("/menu/items/{item_id}", h.Menu.UpdateItem)
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(domain.RoleManagement))

				r.Get("/analytics/revenue/{canteen_id}", h.Analytics.Revenue)
				r.Get("/analytics/top-items/{canteen_id}", h.Analytics.TopItems)
			})
		})
	})

	return r
}
