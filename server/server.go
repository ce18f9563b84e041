package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ray-remotestate/greatwok/handlers"
	"github.com/ray-remotestate/greatwok/metrics"
	"github.com/ray-remotestate/greatwok/middlewares"
	"github.com/ray-remotestate/greatwok/models"
	"github.com/ray-remotestate/greatwok/utils"
)

type Server struct {
	Router  *mux.Router
	Limiter *middlewares.RateLimiter
	handler http.Handler
	server  *http.Server
}

type Options struct {
	AllowedOrigins  []string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
	idleTimeout       = 2 * time.Minute
)

func authed(h http.HandlerFunc) http.Handler {
	return middlewares.AuthMiddleware(h)
}

func adminOnly(h http.HandlerFunc) http.Handler {
	return middlewares.AuthMiddleware(middlewares.RoleBasedMiddleware(models.RoleAdmin)(h))
}

func SetupRoutes(opts Options) *Server {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	router.Use(middlewares.Metrics)

	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	limiter := middlewares.NewRateLimiter(opts.RateLimitMax, opts.RateLimitWindow)
	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.Handler)

	// users
	api.HandleFunc("/users", handlers.Signup).Methods(http.MethodPost)
	api.HandleFunc("/login", handlers.Login).Methods(http.MethodPost)
	api.HandleFunc("/guest", handlers.GuestLogin).Methods(http.MethodPost)
	api.Handle("/profile", authed(handlers.Profile)).Methods(http.MethodGet)
	api.Handle("/profile/phone", authed(handlers.UpdatePhone)).Methods(http.MethodPut)
	api.Handle("/users", adminOnly(handlers.ListUsers)).Methods(http.MethodGet)
	api.Handle("/users/{id:[0-9]+}/role", adminOnly(handlers.UpdateUserRole)).Methods(http.MethodPut)
	api.Handle("/admin", adminOnly(handlers.AdminWelcome)).Methods(http.MethodGet)

	// catalog
	api.HandleFunc("/categories", handlers.ListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id:[0-9]+}", handlers.GetCategory).Methods(http.MethodGet)
	api.Handle("/categories", adminOnly(handlers.CreateCategory)).Methods(http.MethodPost)
	api.Handle("/categories/{id:[0-9]+}", adminOnly(handlers.UpdateCategory)).Methods(http.MethodPut)
	api.Handle("/categories/{id:[0-9]+}", adminOnly(handlers.DeleteCategory)).Methods(http.MethodDelete)

	api.HandleFunc("/dishes", handlers.ListDishes).Methods(http.MethodGet)
	api.HandleFunc("/dishes/{id:[0-9]+}", handlers.GetDish).Methods(http.MethodGet)
	api.Handle("/dishes", adminOnly(handlers.CreateDish)).Methods(http.MethodPost)
	api.Handle("/dishes/{id:[0-9]+}", adminOnly(handlers.UpdateDish)).Methods(http.MethodPut)
	api.Handle("/dishes/{id:[0-9]+}", adminOnly(handlers.DeleteDish)).Methods(http.MethodDelete)

	api.Handle("/inventory", adminOnly(handlers.ListInventory)).Methods(http.MethodGet)
	api.Handle("/inventory", adminOnly(handlers.CreateInventory)).Methods(http.MethodPost)
	api.Handle("/inventory/dish/{dish_id:[0-9]+}", adminOnly(handlers.GetInventoryByDish)).Methods(http.MethodGet)
	api.Handle("/inventory/{id:[0-9]+}", adminOnly(handlers.GetInventory)).Methods(http.MethodGet)
	api.Handle("/inventory/{id:[0-9]+}", adminOnly(handlers.UpdateInventory)).Methods(http.MethodPut)
	api.Handle("/inventory/{id:[0-9]+}/restock", adminOnly(handlers.RestockInventory)).Methods(http.MethodPost)
	api.Handle("/inventory/{id:[0-9]+}", adminOnly(handlers.DeleteInventory)).Methods(http.MethodDelete)

	api.Handle("/upload", adminOnly(handlers.UploadImage)).Methods(http.MethodPost)

	// cart
	api.Handle("/cart", authed(handlers.AddToCart)).Methods(http.MethodPost)
	api.Handle("/cart/item/{id:[0-9]+}", authed(handlers.GetCartItem)).Methods(http.MethodGet)
	api.Handle("/cart/item/{id:[0-9]+}", authed(handlers.UpdateCartItem)).Methods(http.MethodPut)
	api.Handle("/cart/item/{id:[0-9]+}", authed(handlers.DeleteCartItem)).Methods(http.MethodDelete)
	api.Handle("/cart/{user_id:[0-9]+}", authed(handlers.GetCart)).Methods(http.MethodGet)
	api.Handle("/cart/{user_id:[0-9]+}", authed(handlers.ClearCart)).Methods(http.MethodDelete)

	// addresses
	api.Handle("/addresses/{user_id:[0-9]+}", authed(handlers.ListAddresses)).Methods(http.MethodGet)
	api.Handle("/address", authed(handlers.CreateAddress)).Methods(http.MethodPost)
	api.Handle("/address/{id:[0-9]+}", authed(handlers.GetAddress)).Methods(http.MethodGet)
	api.Handle("/address/{id:[0-9]+}", authed(handlers.UpdateAddress)).Methods(http.MethodPut)
	api.Handle("/address/{id:[0-9]+}", authed(handlers.DeleteAddress)).Methods(http.MethodDelete)

	// orders
	api.Handle("/orders", authed(handlers.PlaceOrder)).Methods(http.MethodPost)
	api.Handle("/orders", adminOnly(handlers.ListOrders)).Methods(http.MethodGet)
	api.Handle("/orders/user/{user_id:[0-9]+}", authed(handlers.ListOrdersByUser)).Methods(http.MethodGet)
	api.Handle("/orders/{id:[0-9]+}", authed(handlers.GetOrder)).Methods(http.MethodGet)
	api.Handle("/orders/{id:[0-9]+}/items", authed(handlers.ListOrderItems)).Methods(http.MethodGet)
	api.Handle("/orders/{id:[0-9]+}/status", adminOnly(handlers.UpdateOrderStatus)).Methods(http.MethodPut)
	api.Handle("/order-items", adminOnly(handlers.ListAllOrderItems)).Methods(http.MethodGet)
	api.Handle("/order-items/{id:[0-9]+}/status", adminOnly(handlers.UpdateOrderItemStatus)).Methods(http.MethodPut)

	// reviews
	api.Handle("/reviews", authed(handlers.CreateReview)).Methods(http.MethodPost)
	api.Handle("/reviews", adminOnly(handlers.ListReviews)).Methods(http.MethodGet)
	api.HandleFunc("/reviews/user/{user_id:[0-9]+}", handlers.ListReviewsByUser).Methods(http.MethodGet)
	api.HandleFunc("/reviews/{dish_id:[0-9]+}", handlers.ListReviewsByDish).Methods(http.MethodGet)
	api.Handle("/reviews/{id:[0-9]+}", authed(handlers.UpdateReview)).Methods(http.MethodPut)
	api.Handle("/reviews/{id:[0-9]+}", authed(handlers.DeleteReview)).Methods(http.MethodDelete)

	// Logging is outermost so a recovered panic is still logged with its 500.
	var h http.Handler = middlewares.Recovery(router)
	h = middlewares.CORS(opts.AllowedOrigins)(h)
	h = middlewares.SecurityHeaders(h)
	h = middlewares.Logging(h)

	return &Server{
		Router:  router,
		Limiter: limiter,
		handler: h,
	}
}

// Handler is the router wrapped in the cross-cutting middlewares.
func (svr *Server) Handler() http.Handler {
	return svr.handler
}

func (svr *Server) Run(port string) error {
	svr.server = &http.Server{
		Addr:              port,
		Handler:           svr.handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	if svr.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
