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
	"github.com/unrolled/render"
)

type OnboardingHandler struct {
	render        *render.Render
	sellerRepo    repositories.SellerRepositoryImpl
	catalogueRepo repositories.CatalogueRepositoryImpl
	validator     *validator.Validate
}

func NewOnboardingHandler(r *render.Render, sellerRepo repositories.SellerRepositoryImpl, catalogueRepo repositories.CatalogueRepositoryImpl, validator *validator.Validate) *OnboardingHandler {
	return &OnboardingHandler{
		render:        r,
		sellerRepo:    sellerRepo,
		catalogueRepo: catalogueRepo,
		validator:     validator,
	}
}

type OnboardingForm struct {
	ShopName string `form:"shop_name" validate:"required,min=2,max=255"`
	Currency string `form:"currency" validate:"required"`
	WhatsApp string `form:"whatsapp" validate:"required,e164"`
}

func (h *OnboardingHandler) OnboardingGetHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := r.Context().Value(helpers.ContextKeySeller).(*models.Seller); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":      "Créer votre boutique",
		"Currencies": models.Currencies,
		"FormData":   &OnboardingForm{Currency: "XOF"},
		"Errors":     map[string]string{},
	})
	_ = h.render.HTML(w, http.StatusOK, "onboarding", data)
}

// OnboardingPostHandler creates the Seller then its Catalogue. A user who
// already owns a profile lands on the dashboard instead of an error. There is
// no compensating rollback when the catalogue insert fails after the seller
// insert succeeded; the profile edit flow recovers from that state.
func (h *OnboardingHandler) OnboardingPostHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(helpers.ContextKeyUserID).(string)

	if err := r.ParseForm(); err != nil {
		log.Printf("OnboardingPostHandler: Error parsing form: %v", err)
		http.Redirect(w, r, fmt.Sprintf("/onboarding?status=error&message=%s", url.QueryEscape("Erreur lors du traitement du formulaire.")), http.StatusSeeOther)
		return
	}

	form := OnboardingForm{
		ShopName: r.PostFormValue("shop_name"),
		Currency: r.PostFormValue("currency"),
		WhatsApp: r.PostFormValue("whatsapp"),
	}

	errors := map[string]string{}
	if err := h.validator.Struct(&form); err != nil {
		errors = helpers.FormatValidationErrors(err.(validator.ValidationErrors))
	}
	if form.Currency != "" && !models.ValidCurrency(form.Currency) {
		errors["Currency"] = "Devise non supportée."
	}

	slug := helpers.GenerateSlug(form.ShopName)
	if len(errors) == 0 && slug == "" {
		errors["ShopName"] = "Le nom de la boutique doit contenir des lettres ou des chiffres."
	}

	if len(errors) > 0 {
		data := helpers.GetBaseData(r, map[string]interface{}{
			"Title":      "Créer votre boutique",
			"Currencies": models.Currencies,
			"FormData":   &form,
			"Errors":     errors,
		})
		_ = h.render.HTML(w, http.StatusOK, "onboarding", data)
		return
	}

	existing, err := h.sellerRepo.FindByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("OnboardingPostHandler: Error checking existing seller for user %s: %v", userID, err)
		http.Redirect(w, r, fmt.Sprintf("/onboarding?status=error&message=%s", url.QueryEscape("Erreur serveur.")), http.StatusSeeOther)
		return
	}
	if existing != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	uniqueSlug, err := h.catalogueRepo.EnsureUniqueSlug(r.Context(), slug)
	if err != nil {
		log.Printf("OnboardingPostHandler: Error ensuring unique slug %q: %v", slug, err)
		http.Redirect(w, r, fmt.Sprintf("/onboarding?status=error&message=%s", url.QueryEscape("Erreur serveur.")), http.StatusSeeOther)
		return
	}

	seller := &models.Seller{
		UserID:   userID,
		ShopName: form.ShopName,
		Currency: form.Currency,
		WhatsApp: form.WhatsApp,
	}
	if err := h.sellerRepo.Create(r.Context(), seller); err != nil {
		log.Printf("OnboardingPostHandler: Error creating seller for user %s: %v", userID, err)
		http.Redirect(w, r, fmt.Sprintf("/onboarding?status=error&message=%s", url.QueryEscape("Impossible de créer la boutique.")), http.StatusSeeOther)
		return
	}

	catalogue := &models.Catalogue{
		SellerID: seller.ID,
		Slug:     uniqueSlug,
	}
	if err := h.catalogueRepo.Create(r.Context(), catalogue); err != nil {
		log.Printf("OnboardingPostHandler: Error creating catalogue for seller %s (seller row left in place): %v", seller.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Boutique créée mais catalogue indisponible. Modifiez votre profil pour réessayer.")), http.StatusSeeOther)
		return
	}

	log.Printf("✅ Seller %s onboarded with slug %s", seller.ID, uniqueSlug)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
