package http

import (
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/mux"
	websocketTransport "github.com/kahvecikaan/ecommerce-api/internal/transport/websocket"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Products   *ProductHandler
	Categories *CategoryHandler
	Users      *UserHandler
	Orders     *OrderHandler
	Images     *ImageHandler
	WebSocket  *websocketTransport.Handler
}

func NewRouter(h Handlers, mw *Middleware) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(mw.LoggingMiddleware)
	router.Use(mw.CORSMiddleware)
	router.Use(mw.ContentTypeMiddleware)

	// Preflight requests for any path; CORSMiddleware answers them
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public routes
	router.HandleFunc("/auth/register", h.Users.Register).Methods("POST")
	router.HandleFunc("/auth/login", h.Users.Login).Methods("POST")
	router.HandleFunc("/auth/verify-email", h.Users.VerifyEmail).Methods("GET")

	router.HandleFunc("/categories", h.Categories.ListCategories).Methods("GET")
	router.HandleFunc("/categories/{id:[0-9]+}", h.Categories.GetCategory).Methods("GET")
	router.HandleFunc("/categories/{id:[0-9]+}/products", h.Categories.CategoryProducts).Methods("GET")

	router.HandleFunc("/products/{id:[0-9]+}", h.Products.GetProduct).Methods("GET")
	router.HandleFunc("/products/filter", h.Products.FilterProducts).Methods("GET")
	router.HandleFunc("/products/search", h.Products.SearchProducts).Methods("GET")
	router.HandleFunc("/products/type/{type}", h.Products.ProductsByType).Methods("GET")
	router.HandleFunc("/products/category/{id:[0-9]+}", h.Products.ProductsByCategory).Methods("GET")
	router.HandleFunc("/products/display-only", h.Products.DisplayOnlyProducts).Methods("GET")
	router.HandleFunc("/products/purchasable", h.Products.PurchasableProducts).Methods("GET")
	router.HandleFunc("/products/specs-schema/{type}", h.Products.SpecificationsSchema).Methods("GET")

	router.HandleFunc("/images/{filename}", h.Images.GetImage).Methods("GET")
	router.HandleFunc("/ws", h.WebSocket.HandleWebSocket).Methods("GET")

	// Routes requiring a bearer token; role checks happen in the services
	authRouter := router.NewRoute().Subrouter()
	authRouter.Use(mw.AuthMiddleware)

	authRouter.HandleFunc("/users/me", h.Users.CurrentUser).Methods("GET")
	authRouter.HandleFunc("/users", h.Users.ListUsers).Methods("GET")
	authRouter.HandleFunc("/address", h.Users.SaveAddress).Methods("POST")

	authRouter.HandleFunc("/categories", h.Categories.CreateCategory).Methods("POST")
	authRouter.HandleFunc("/categories/{id:[0-9]+}", h.Categories.UpdateCategory).Methods("PUT")
	authRouter.HandleFunc("/categories/{id:[0-9]+}", h.Categories.DeleteCategory).Methods("DELETE")

	authRouter.HandleFunc("/products", h.Products.ListProducts).Methods("GET")
	authRouter.HandleFunc("/products", h.Products.CreateProduct).Methods("POST")
	authRouter.HandleFunc("/products/{id:[0-9]+}", h.Products.UpdateProduct).Methods("PUT")
	authRouter.HandleFunc("/products/{id:[0-9]+}", h.Products.DeleteProduct).Methods("DELETE")

	authRouter.HandleFunc("/orders", h.Orders.PlaceOrder).Methods("POST")
	authRouter.HandleFunc("/orders/items", h.Orders.FilterItems).Methods("GET")
	authRouter.HandleFunc("/orders/items/{id:[0-9]+}/status", h.Orders.UpdateItemStatus).Methods("PUT")

	// Swagger UI and specification routes
	// swagger.yaml lives at the module root, three levels above this file
	_, filename, _, _ := runtime.Caller(0)
	rootDir := filepath.Join(filepath.Dir(filename), "..", "..", "..")
	swaggerFilePath := filepath.Join(rootDir, "swagger.yaml")

	router.HandleFunc("/swagger.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		http.ServeFile(w, r, swaggerFilePath)
	}).Methods("GET")

	swaggerOpts := middleware.RedocOpts{SpecURL: "/swagger.yaml"}
	router.Handle("/docs", middleware.Redoc(swaggerOpts, nil)).Methods("GET")

	return router
}
