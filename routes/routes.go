package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"dzwave.net/regdoc/handlers"
	"dzwave.net/regdoc/middleware"
	"dzwave.net/regdoc/models"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes(api *handlers.API, generatedDir string) http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/api/auth/login", api.Login).Methods("POST")
	r.HandleFunc("/api/health", api.Health).Methods("GET")
	r.PathPrefix("/files/").Handler(
		http.StripPrefix("/files/", http.FileServer(http.Dir(generatedDir))),
	)

	// =====================================================
	// Protected Routes (require JWT authentication)
	// =====================================================
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.JWTMiddleware)

	protected.HandleFunc("/auth/me", api.Me).Methods("GET")

	protected.HandleFunc("/generate", api.GenerateDocuments).Methods("POST")
	protected.HandleFunc("/check-duplicate", api.CheckDuplicate).Methods("POST")

	// export registered before the {reference} route so "export" never
	// resolves as a reference
	protected.HandleFunc("/documents/export", api.ExportDocuments).Methods("GET")
	protected.HandleFunc("/documents", api.ListDocuments).Methods("GET")
	protected.HandleFunc("/documents/{reference}", api.GetDocument).Methods("GET")
	protected.HandleFunc("/documents/{reference}", api.UpdateDocument).Methods("PUT")
	protected.HandleFunc("/documents/{reference}", api.DeleteDocument).Methods("DELETE")
	protected.HandleFunc("/download/{reference}/{language}", api.DownloadDocument).Methods("GET")

	protected.HandleFunc("/config/models", api.ListCpeModels).Methods("GET")
	protected.HandleFunc("/config/offers", api.ListInternetOffers).Methods("GET")

	// =====================================================
	// Admin Routes
	// =====================================================
	adminOnly := []string{models.RoleAdmin}

	protected.Handle("/config/models", middleware.RequireRole(adminOnly,
		http.HandlerFunc(api.CreateCpeModel))).Methods("POST")
	protected.Handle("/config/models/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(api.DeleteCpeModel))).Methods("DELETE")
	protected.Handle("/config/offers", middleware.RequireRole(adminOnly,
		http.HandlerFunc(api.CreateInternetOffer))).Methods("POST")
	protected.Handle("/config/offers/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(api.DeleteInternetOffer))).Methods("DELETE")

	protected.Handle("/users", middleware.RequireRole(adminOnly,
		http.HandlerFunc(api.ListUsers))).Methods("GET")
	protected.Handle("/users", middleware.RequireRole(adminOnly,
		http.HandlerFunc(api.CreateUser))).Methods("POST")
	protected.Handle("/users/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(api.UpdateUser))).Methods("PUT")
	protected.Handle("/users/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(api.DeleteUser))).Methods("DELETE")

	return r
}
