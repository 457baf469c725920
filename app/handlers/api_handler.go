package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopshap/shopshap/app/helpers"
	"github.com/shopshap/shopshap/app/models"
	"github.com/shopshap/shopshap/app/repositories"
	"github.com/shopshap/shopshap/app/services"
	"github.com/unrolled/render"
)

// APIHandler serves the JSON endpoints the dashboard and public page consume.
type APIHandler struct {
	render        *render.Render
	auth          services.AuthClient
	sellerRepo    repositories.SellerRepositoryImpl
	catalogueRepo repositories.CatalogueRepositoryImpl
	productRepo   repositories.ProductRepositoryImpl
	storage       services.ObjectStorage
}

func NewAPIHandler(r *render.Render, auth services.AuthClient, sellerRepo repositories.SellerRepositoryImpl, catalogueRepo repositories.CatalogueRepositoryImpl, productRepo repositories.ProductRepositoryImpl, storage services.ObjectStorage) *APIHandler {
	return &APIHandler{
		render:        r,
		auth:          auth,
		sellerRepo:    sellerRepo,
		catalogueRepo: catalogueRepo,
		productRepo:   productRepo,
		storage:       storage,
	}
}

// requestUserID resolves the caller: an Authorization bearer token verified
// against the auth provider, or the session cookie already resolved by the
// middleware.
func (h *APIHandler) requestUserID(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		user, err := h.auth.UserFromToken(token)
		if err != nil {
			log.Printf("requestUserID: Bearer token rejected: %v", err)
			return ""
		}
		return user.ID
	}

	if userID, ok := r.Context().Value(helpers.ContextKeyUserID).(string); ok {
		return userID
	}
	return ""
}

// DashboardDataHandler returns the seller + catalogue + products bundle,
// visibility ignored since the owner is looking at their own shop.
func (h *APIHandler) DashboardDataHandler(w http.ResponseWriter, r *http.Request) {
	userID := h.requestUserID(r)
	if userID == "" {
		_ = h.render.JSON(w, http.StatusUnauthorized, map[string]interface{}{"error": "Token d'authentification manquant ou invalide."})
		return
	}

	seller, err := h.sellerRepo.FindByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("DashboardDataHandler: Error loading seller for user %s: %v", userID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Erreur serveur."})
		return
	}
	if seller == nil {
		_ = h.render.JSON(w, http.StatusNotFound, map[string]interface{}{
			"error":            "Profil vendeur non trouvé.",
			"needs_onboarding": true,
		})
		return
	}

	catalogue, err := h.catalogueRepo.FindBySellerID(r.Context(), seller.ID)
	if err != nil {
		log.Printf("DashboardDataHandler: Error loading catalogue for seller %s: %v", seller.ID, err)
	}

	products := []models.Product{}
	if catalogue != nil {
		products, err = h.productRepo.GetByCatalogue(r.Context(), catalogue.ID)
		if err != nil {
			log.Printf("DashboardDataHandler: Error loading products for catalogue %s: %v", catalogue.ID, err)
			_ = h.render.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Erreur lors du chargement des produits."})
			return
		}
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"seller":    seller,
		"catalogue": catalogue,
		"products":  products,
	})
}

// CatalogueDataHandler is the public bundle behind /{slug}: catalogue with
// seller, plus visible products only.
func (h *APIHandler) CatalogueDataHandler(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	catalogue, err := h.catalogueRepo.FindBySlug(r.Context(), slug)
	if err != nil {
		log.Printf("CatalogueDataHandler: Error loading catalogue %q: %v", slug, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Erreur serveur."})
		return
	}
	if catalogue == nil {
		_ = h.render.JSON(w, http.StatusNotFound, map[string]interface{}{"error": "Catalogue non trouvé."})
		return
	}

	products, err := h.productRepo.GetVisibleByCatalogue(r.Context(), catalogue.ID)
	if err != nil {
		log.Printf("CatalogueDataHandler: Error loading products for catalogue %s: %v", catalogue.ID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Erreur lors du chargement des produits."})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"catalogue": catalogue,
		"products":  products,
	})
}

// InitStorageHandler keeps the original provisioning endpoint; the
// init-storage CLI command is the preferred path.
func (h *APIHandler) InitStorageHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.EnsureBucket(r.Context()); err != nil {
		log.Printf("InitStorageHandler: Bucket provisioning failed: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Création du bucket impossible."})
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}
