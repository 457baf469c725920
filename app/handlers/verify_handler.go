package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/shopshap/shopshap/app/helpers"
	"github.com/shopshap/shopshap/app/models"
	"github.com/shopshap/shopshap/app/repositories"
	"github.com/shopshap/shopshap/app/services"
	"github.com/unrolled/render"
)

// codeValidity is how long a verification code stays usable.
const codeValidity = 10 * time.Minute

type VerifyHandler struct {
	render     *render.Render
	sellerRepo repositories.SellerRepositoryImpl
	sender     services.CodeSender
}

func NewVerifyHandler(r *render.Render, sellerRepo repositories.SellerRepositoryImpl, sender services.CodeSender) *VerifyHandler {
	return &VerifyHandler{
		render:     r,
		sellerRepo: sellerRepo,
		sender:     sender,
	}
}

func (h *VerifyHandler) VerifyPageHandler(w http.ResponseWriter, r *http.Request) {
	seller := r.Context().Value(helpers.ContextKeySeller).(*models.Seller)

	if seller.WhatsAppVerified {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":    "Vérifier votre numéro WhatsApp",
		"SellerID": seller.ID,
		"Phone":    seller.WhatsApp,
	})
	_ = h.render.HTML(w, http.StatusOK, "verify_whatsapp", data)
}

type sendVerificationRequest struct {
	PhoneNumber string `json:"phone_number"`
	SellerID    string `json:"seller_id"`
}

// SendVerificationHandler generates a 6-digit code, stores it with a
// 10-minute expiry and delivers it over WhatsApp. Delivery failure does not
// discard the stored code; in development mode the code is echoed back.
func (h *VerifyHandler) SendVerificationHandler(w http.ResponseWriter, r *http.Request) {
	var req sendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Requête invalide."})
		return
	}
	if req.SellerID == "" || req.PhoneNumber == "" {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "seller_id et phone_number sont obligatoires."})
		return
	}

	seller, err := h.sellerRepo.FindByID(r.Context(), req.SellerID)
	if err != nil {
		log.Printf("SendVerificationHandler: Error loading seller %s: %v", req.SellerID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Erreur serveur."})
		return
	}
	if seller == nil {
		_ = h.render.JSON(w, http.StatusNotFound, map[string]interface{}{"error": "Vendeur introuvable."})
		return
	}

	code := fmt.Sprintf("%06d", rand.Intn(900000)+100000)
	expiresAt := time.Now().Add(codeValidity)

	if err := h.sellerRepo.SetVerificationCode(r.Context(), seller.ID, code, expiresAt); err != nil {
		log.Printf("SendVerificationHandler: Error storing code for seller %s: %v", seller.ID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Erreur lors de l'enregistrement du code."})
		return
	}

	if err := h.sender.SendVerificationCode(req.PhoneNumber, code); err != nil {
		// the stored code stays valid; dev mode surfaces it below
		log.Printf("SendVerificationHandler: WhatsApp delivery failed for seller %s: %v", seller.ID, err)
	}

	resp := map[string]interface{}{
		"success": true,
		"message": "Code envoyé via WhatsApp",
	}
	if h.sender.DevMode() {
		resp["dev_code"] = code
	}
	_ = h.render.JSON(w, http.StatusOK, resp)
}

type verifyCodeRequest struct {
	Code     string `json:"code"`
	SellerID string `json:"seller_id"`
}

// VerifyCodeHandler accepts a code iff it matches the stored one inside its
// expiry window. A successful verification clears the stored code so it
// cannot be replayed.
func (h *VerifyHandler) VerifyCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Requête invalide."})
		return
	}

	seller, err := h.sellerRepo.FindByID(r.Context(), req.SellerID)
	if err != nil {
		log.Printf("VerifyCodeHandler: Error loading seller %s: %v", req.SellerID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Erreur serveur."})
		return
	}
	if seller == nil {
		_ = h.render.JSON(w, http.StatusNotFound, map[string]interface{}{"error": "Vendeur introuvable."})
		return
	}

	if seller.VerificationCode == nil || seller.VerificationExpiresAt == nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Aucun code en attente. Demandez un nouveau code."})
		return
	}

	if time.Now().After(*seller.VerificationExpiresAt) {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Le code a expiré. Demandez un nouveau code."})
		return
	}

	if *seller.VerificationCode != req.Code {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Code incorrect."})
		return
	}

	if err := h.sellerRepo.MarkVerified(r.Context(), seller.ID); err != nil {
		log.Printf("VerifyCodeHandler: Error marking seller %s verified: %v", seller.ID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Erreur lors de la mise à jour."})
		return
	}

	log.Printf("✅ WhatsApp number verified for seller %s", seller.ID)
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Numéro WhatsApp vérifié avec succès",
	})
}
