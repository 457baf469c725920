package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"github.com/shopshap/shopshap/app/helpers"
	"github.com/shopshap/shopshap/app/repositories"
	"github.com/shopshap/shopshap/app/services"
	"github.com/shopshap/shopshap/app/utils/sessions"
	"github.com/unrolled/render"
	"golang.org/x/crypto/bcrypt"
)

const oauthStateCookieName = "oauth_state"

type AuthHandler struct {
	render       *render.Render
	auth         services.AuthClient
	sellerRepo   repositories.SellerRepositoryImpl
	sessionStore sessions.SessionStore
}

func NewAuthHandler(r *render.Render, auth services.AuthClient, sellerRepo repositories.SellerRepositoryImpl, sessionStore sessions.SessionStore) *AuthHandler {
	return &AuthHandler{
		render:       r,
		auth:         auth,
		sellerRepo:   sellerRepo,
		sessionStore: sessionStore,
	}
}

func (h *AuthHandler) SigninGetHandler(w http.ResponseWriter, r *http.Request) {
	if userID, ok := r.Context().Value(helpers.ContextKeyUserID).(string); ok && userID != "" {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	state := randomState()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":        "Connexion",
		"AuthorizeURL": h.auth.AuthorizeURL(state),
	})
	_ = h.render.HTML(w, http.StatusOK, "auth/signin", data)
}

// CallbackHandler is the single OAuth exchange endpoint: the authorization
// code arrives as a query parameter, the session comes back as a server
// cookie. No token ever rides a URL fragment.
func (h *AuthHandler) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		log.Println("CallbackHandler: No OAuth code in callback")
		http.Redirect(w, r, "/auth/error", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if cookie, err := r.Cookie(oauthStateCookieName); err != nil || state == "" || cookie.Value != state {
		log.Println("CallbackHandler: OAuth state mismatch")
		http.Redirect(w, r, "/auth/error", http.StatusSeeOther)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookieName, Path: "/", MaxAge: -1})

	user, err := h.auth.ExchangeCode(code)
	if err != nil {
		log.Printf("CallbackHandler: Code exchange failed: %v", err)
		http.Redirect(w, r, "/auth/error", http.StatusSeeOther)
		return
	}

	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		log.Printf("CallbackHandler: Error setting session for user %s: %v", user.ID, err)
		http.Redirect(w, r, "/auth/error", http.StatusSeeOther)
		return
	}

	seller, err := h.sellerRepo.FindByUserID(r.Context(), user.ID)
	if err != nil {
		log.Printf("CallbackHandler: Error loading seller for user %s: %v", user.ID, err)
		http.Redirect(w, r, "/auth/error", http.StatusSeeOther)
		return
	}

	if seller == nil {
		log.Printf("CallbackHandler: New user %s → onboarding", user.ID)
		http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
		return
	}

	h.issueRememberToken(w, r, seller.ID)

	log.Printf("CallbackHandler: User %s has a profile → dashboard", user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) issueRememberToken(w http.ResponseWriter, r *http.Request, sellerID string) {
	selector, verifierRaw, cookieValue, err := helpers.GenerateRememberTokenParts()
	if err != nil {
		log.Printf("issueRememberToken: Failed to generate token parts: %v", err)
		return
	}

	hashedVerifier, err := bcrypt.GenerateFromPassword([]byte(verifierRaw), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("issueRememberToken: Failed to hash verifier: %v", err)
		return
	}

	if err := h.sellerRepo.UpdateRememberToken(r.Context(), sellerID, selector, string(hashedVerifier)); err != nil {
		log.Printf("issueRememberToken: Failed to store remember token for seller %s: %v", sellerID, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     helpers.RememberMeCookieName,
		Value:    cookieValue,
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) AuthErrorHandler(w http.ResponseWriter, r *http.Request) {
	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title": "Erreur de connexion",
	})
	_ = h.render.HTML(w, http.StatusOK, "auth/error", data)
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if userID, ok := r.Context().Value(helpers.ContextKeyUserID).(string); ok && userID != "" {
		seller, err := h.sellerRepo.FindByUserID(r.Context(), userID)
		if err == nil && seller != nil {
			if err := h.sellerRepo.UpdateRememberToken(r.Context(), seller.ID, "", ""); err != nil {
				log.Printf("LogoutHandler: Failed to clear remember token for seller %s: %v", seller.ID, err)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{Name: helpers.RememberMeCookieName, Path: "/", MaxAge: -1})
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		log.Printf("LogoutHandler: Error clearing session: %v", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func randomState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		log.Printf("randomState: Failed to read random bytes: %v", err)
	}
	return hex.EncodeToString(b)
}
