package middlewares

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/shopshap/shopshap/app/helpers"
	"github.com/shopshap/shopshap/app/models"
	"github.com/shopshap/shopshap/app/repositories"
	"github.com/shopshap/shopshap/app/utils/sessions"
)

// SessionMiddleware resolves the signed-in user for every request: first from
// the session cookie, then from the remember-me cookie. The user id and, when
// present, the seller profile are put on the request context so handlers never
// touch ambient session state.
func SessionMiddleware(sessionStore sessions.SessionStore, sellerRepo repositories.SellerRepositoryImpl) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sessionStore.GetUserID(r)

			if userID == "" {
				if cookie, err := r.Cookie(helpers.RememberMeCookieName); err == nil && cookie.Value != "" {
					seller, err := sellerRepo.FindByRememberToken(r.Context(), cookie.Value)
					if err != nil {
						log.Printf("SessionMiddleware: Error looking up remember token: %v", err)
					} else if seller != nil {
						userID = seller.UserID
						if err := sessionStore.SetUserID(w, r, userID); err != nil {
							log.Printf("SessionMiddleware: Error restoring session from remember token: %v", err)
						}
					}
				}
			}

			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyUserID, userID)

			seller, err := sellerRepo.FindByUserID(ctx, userID)
			if err != nil {
				log.Printf("SessionMiddleware: Error loading seller for user %s: %v", userID, err)
			} else if seller != nil {
				ctx = context.WithValue(ctx, helpers.ContextKeySeller, seller)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth guards dashboard routes: unauthenticated requests go to the
// sign-in page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(helpers.ContextKeyUserID).(string)
		if !ok || userID == "" {
			http.Redirect(w, r, "/auth/signin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSeller additionally demands an onboarded profile; signed-in users
// without one are sent to onboarding.
func RequireSeller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(helpers.ContextKeyUserID).(string)
		if !ok || userID == "" {
			http.Redirect(w, r, "/auth/signin", http.StatusSeeOther)
			return
		}
		if _, ok := r.Context().Value(helpers.ContextKeySeller).(*models.Seller); !ok {
			http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func MethodOverrideMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = r.ParseForm()
			override := r.Form.Get("_method")
			if override != "" {
				r.Method = strings.ToUpper(override)
			}
		}
		next.ServeHTTP(w, r)
	})
}
