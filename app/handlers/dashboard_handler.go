package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/shopshap/shopshap/app/helpers"
	"github.com/shopshap/shopshap/app/models"
	"github.com/shopshap/shopshap/app/repositories"
	"github.com/shopshap/shopshap/app/services"
	"github.com/shopshap/shopshap/app/utils/format"
	"github.com/shopshap/shopshap/app/utils/sessions"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type DashboardHandler struct {
	render        *render.Render
	sellerRepo    repositories.SellerRepositoryImpl
	catalogueRepo repositories.CatalogueRepositoryImpl
	productRepo   repositories.ProductRepositoryImpl
	imageRepo     repositories.ProductImageRepositoryImpl
	storage       services.ObjectStorage
	sessionStore  sessions.SessionStore
	validator     *validator.Validate
}

func NewDashboardHandler(r *render.Render, sellerRepo repositories.SellerRepositoryImpl, catalogueRepo repositories.CatalogueRepositoryImpl, productRepo repositories.ProductRepositoryImpl, imageRepo repositories.ProductImageRepositoryImpl, storage services.ObjectStorage, sessionStore sessions.SessionStore, validator *validator.Validate) *DashboardHandler {
	return &DashboardHandler{
		render:        r,
		sellerRepo:    sellerRepo,
		catalogueRepo: catalogueRepo,
		productRepo:   productRepo,
		imageRepo:     imageRepo,
		storage:       storage,
		sessionStore:  sessionStore,
		validator:     validator,
	}
}

func (h *DashboardHandler) DashboardGetHandler(w http.ResponseWriter, r *http.Request) {
	seller := r.Context().Value(helpers.ContextKeySeller).(*models.Seller)

	catalogue, err := h.catalogueRepo.FindBySellerID(r.Context(), seller.ID)
	if err != nil {
		log.Printf("DashboardGetHandler: Error loading catalogue for seller %s: %v", seller.ID, err)
	}

	var products []models.Product
	if catalogue != nil {
		products, err = h.productRepo.GetByCatalogue(r.Context(), catalogue.ID)
		if err != nil {
			log.Printf("DashboardGetHandler: Error loading products for catalogue %s: %v", catalogue.ID, err)
		}
	}

	totalValue := decimal.Zero
	visibleCount := 0
	for _, p := range products {
		totalValue = totalValue.Add(p.Price)
		if p.Visible {
			visibleCount++
		}
	}

	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":         "Tableau de bord",
		"Catalogue":     catalogue,
		"Products":      products,
		"ProductCount":  len(products),
		"VisibleCount":  visibleCount,
		"TotalValue":    format.FormatMoney(totalValue, seller.Currency),
		"Currencies":    models.Currencies,
		"MessageStatus": r.URL.Query().Get("status"),
		"Message":       r.URL.Query().Get("message"),
	})
	_ = h.render.HTML(w, http.StatusOK, "dashboard/index", data)
}

type ProfileForm struct {
	ShopName string `form:"shop_name" validate:"required,min=2,max=255"`
	Currency string `form:"currency" validate:"required"`
	WhatsApp string `form:"whatsapp" validate:"required,e164"`
}

// ProfileUpdateHandler edits the shop profile. A shop rename regenerates the
// slug (not versioned, the old address simply stops working); a WhatsApp
// number change drops the verified flag.
func (h *DashboardHandler) ProfileUpdateHandler(w http.ResponseWriter, r *http.Request) {
	seller := r.Context().Value(helpers.ContextKeySeller).(*models.Seller)

	if err := r.ParseForm(); err != nil {
		log.Printf("ProfileUpdateHandler: Error parsing form: %v", err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Erreur lors du traitement du formulaire.")), http.StatusSeeOther)
		return
	}

	form := ProfileForm{
		ShopName: r.PostFormValue("shop_name"),
		Currency: r.PostFormValue("currency"),
		WhatsApp: r.PostFormValue("whatsapp"),
	}

	if err := h.validator.Struct(&form); err != nil {
		log.Printf("ProfileUpdateHandler: Validation failed for seller %s: %v", seller.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Profil invalide, vérifiez les champs.")), http.StatusSeeOther)
		return
	}
	if !models.ValidCurrency(form.Currency) {
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Devise non supportée.")), http.StatusSeeOther)
		return
	}

	nameChanged := form.ShopName != seller.ShopName
	whatsappChanged := form.WhatsApp != seller.WhatsApp

	seller.ShopName = form.ShopName
	seller.Currency = form.Currency
	seller.WhatsApp = form.WhatsApp

	if err := h.sellerRepo.Update(r.Context(), seller); err != nil {
		log.Printf("ProfileUpdateHandler: Error updating seller %s: %v", seller.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Impossible de mettre à jour le profil.")), http.StatusSeeOther)
		return
	}

	if whatsappChanged {
		if err := h.sellerRepo.ResetVerification(r.Context(), seller.ID); err != nil {
			log.Printf("ProfileUpdateHandler: Error resetting verification for seller %s: %v", seller.ID, err)
		}
	}

	if nameChanged {
		newSlug := helpers.GenerateSlug(form.ShopName)
		if newSlug != "" {
			catalogue, err := h.catalogueRepo.FindBySellerID(r.Context(), seller.ID)
			if err != nil {
				log.Printf("ProfileUpdateHandler: Error loading catalogue for seller %s: %v", seller.ID, err)
			} else if catalogue == nil {
				// onboarding left an orphaned seller; recover here
				uniqueSlug, err := h.catalogueRepo.EnsureUniqueSlug(r.Context(), newSlug)
				if err == nil {
					err = h.catalogueRepo.Create(r.Context(), &models.Catalogue{SellerID: seller.ID, Slug: uniqueSlug})
				}
				if err != nil {
					log.Printf("ProfileUpdateHandler: Error recreating catalogue for seller %s: %v", seller.ID, err)
				}
			} else if newSlug != catalogue.Slug {
				uniqueSlug, err := h.catalogueRepo.EnsureUniqueSlug(r.Context(), newSlug)
				if err == nil {
					err = h.catalogueRepo.UpdateSlug(r.Context(), catalogue.ID, uniqueSlug)
				}
				if err != nil {
					log.Printf("ProfileUpdateHandler: Error updating slug for catalogue %s: %v", catalogue.ID, err)
					http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Profil mis à jour mais le lien de la boutique n'a pas changé.")), http.StatusSeeOther)
					return
				}
			}
		}
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard?status=success&message=%s", url.QueryEscape("Profil mis à jour.")), http.StatusSeeOther)
}

// AccountDeleteHandler removes the seller and everything under it. The typed
// confirmation must match the shop name exactly. Blobs are deleted best
// effort after the rows; the auth identity at the provider is left alone.
func (h *DashboardHandler) AccountDeleteHandler(w http.ResponseWriter, r *http.Request) {
	seller := r.Context().Value(helpers.ContextKeySeller).(*models.Seller)

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Erreur lors du traitement du formulaire.")), http.StatusSeeOther)
		return
	}

	if r.PostFormValue("confirm_text") != seller.ShopName {
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Le nom saisi ne correspond pas à votre boutique.")), http.StatusSeeOther)
		return
	}

	var blobURLs []string
	catalogue, err := h.catalogueRepo.FindBySellerID(r.Context(), seller.ID)
	if err == nil && catalogue != nil {
		products, err := h.productRepo.GetByCatalogue(r.Context(), catalogue.ID)
		if err != nil {
			log.Printf("AccountDeleteHandler: Error listing products for blob cleanup: %v", err)
		}
		for _, p := range products {
			if p.ImageURL != "" {
				blobURLs = append(blobURLs, p.ImageURL)
			}
			for _, img := range p.Images {
				blobURLs = append(blobURLs, img.ImageURL)
			}
		}
	}

	if err := h.sellerRepo.Delete(r.Context(), seller.ID); err != nil {
		log.Printf("AccountDeleteHandler: Error deleting seller %s: %v", seller.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Impossible de supprimer le compte.")), http.StatusSeeOther)
		return
	}

	for _, blobURL := range blobURLs {
		if err := h.storage.DeleteByURL(r.Context(), blobURL); err != nil {
			log.Printf("AccountDeleteHandler: Failed to delete blob %s: %v", blobURL, err)
		}
	}

	http.SetCookie(w, &http.Cookie{Name: helpers.RememberMeCookieName, Path: "/", MaxAge: -1})
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		log.Printf("AccountDeleteHandler: Error clearing session: %v", err)
	}

	log.Printf("✅ Seller %s deleted their account", seller.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
