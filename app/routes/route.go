package routes

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/shopshap/shopshap/app/configs"
	"github.com/shopshap/shopshap/app/handlers"
	"github.com/shopshap/shopshap/app/middlewares"
	"github.com/shopshap/shopshap/app/repositories"
	"github.com/shopshap/shopshap/app/services"
	"github.com/shopshap/shopshap/app/utils/renderer"
	"github.com/shopshap/shopshap/app/utils/sessions"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, keys *configs.SessionKeys, storage services.ObjectStorage) *mux.Router {
	env := configs.LoadENV

	render := renderer.New()
	validate := validator.New()
	sessionStore := sessions.NewCookieSessionStore(keys.AuthKey, keys.EncKey)

	sellerRepo := repositories.NewSellerRepository(db)
	catalogueRepo := repositories.NewCatalogueRepository(db)
	productRepo := repositories.NewProductRepository(db)
	imageRepo := repositories.NewProductImageRepository(db)

	authService := services.NewAuthService(env)
	whatsappSender := services.NewTwilioWhatsAppService(env)

	homeHandler := handlers.NewHomeHandler(render)
	authHandler := handlers.NewAuthHandler(render, authService, sellerRepo, sessionStore)
	onboardingHandler := handlers.NewOnboardingHandler(render, sellerRepo, catalogueRepo, validate)
	dashboardHandler := handlers.NewDashboardHandler(render, sellerRepo, catalogueRepo, productRepo, imageRepo, storage, sessionStore, validate)
	catalogueHandler := handlers.NewCatalogueHandler(render, catalogueRepo, productRepo)
	verifyHandler := handlers.NewVerifyHandler(render, sellerRepo, whatsappSender)
	apiHandler := handlers.NewAPIHandler(render, authService, sellerRepo, catalogueRepo, productRepo, storage)

	router := mux.NewRouter()
	router.Use(middlewares.MethodOverrideMiddleware)
	router.Use(middlewares.SessionMiddleware(sessionStore, sellerRepo))

	router.HandleFunc("/", homeHandler.Home).Methods("GET")

	router.HandleFunc("/auth/signin", authHandler.SigninGetHandler).Methods("GET")
	router.HandleFunc("/auth/callback", authHandler.CallbackHandler).Methods("GET")
	router.HandleFunc("/auth/error", authHandler.AuthErrorHandler).Methods("GET")
	router.HandleFunc("/logout", authHandler.LogoutHandler).Methods("POST")

	csrfProtect := csrf.Protect(keys.AuthKey, csrf.Secure(env.AppEnv == "production"))

	onboarding := router.PathPrefix("/onboarding").Subrouter()
	onboarding.Use(middlewares.RequireAuth)
	onboarding.Use(csrfProtect)
	onboarding.HandleFunc("", onboardingHandler.OnboardingGetHandler).Methods("GET")
	onboarding.HandleFunc("", onboardingHandler.OnboardingPostHandler).Methods("POST")

	dashboard := router.PathPrefix("/dashboard").Subrouter()
	dashboard.Use(middlewares.RequireSeller)
	dashboard.Use(csrfProtect)
	dashboard.HandleFunc("", dashboardHandler.DashboardGetHandler).Methods("GET")
	dashboard.HandleFunc("/profile", dashboardHandler.ProfileUpdateHandler).Methods("POST")
	dashboard.HandleFunc("/account/delete", dashboardHandler.AccountDeleteHandler).Methods("POST")
	dashboard.HandleFunc("/products/add", dashboardHandler.AddProductPage).Methods("GET")
	dashboard.HandleFunc("/products", dashboardHandler.AddProductPost).Methods("POST")
	dashboard.HandleFunc("/products/{id}/edit", dashboardHandler.EditProductPage).Methods("GET")
	dashboard.HandleFunc("/products/{id}", dashboardHandler.EditProductPost).Methods("POST")
	dashboard.HandleFunc("/products/{id}/delete", dashboardHandler.DeleteProductPost).Methods("POST")
	dashboard.HandleFunc("/products/{id}/visibility", dashboardHandler.ToggleVisibilityPost).Methods("POST")
	dashboard.HandleFunc("/products/{id}/images/{imageID}/delete", dashboardHandler.DeleteProductImagePost).Methods("POST")

	verify := router.PathPrefix("/verify-whatsapp").Subrouter()
	verify.Use(middlewares.RequireSeller)
	verify.HandleFunc("", verifyHandler.VerifyPageHandler).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard-data", apiHandler.DashboardDataHandler).Methods("GET")
	api.HandleFunc("/catalogue/{slug}", apiHandler.CatalogueDataHandler).Methods("GET")
	api.HandleFunc("/init-storage", apiHandler.InitStorageHandler).Methods("POST")
	api.HandleFunc("/send-verification", verifyHandler.SendVerificationHandler).Methods("POST")
	api.HandleFunc("/verify-code", verifyHandler.VerifyCodeHandler).Methods("POST")

	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("public"))))

	// slug route last so it never shadows the fixed paths above
	router.HandleFunc("/{slug}", catalogueHandler.CataloguePage).Methods("GET")

	return router
}
