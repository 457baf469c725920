package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopshap/shopshap/app/helpers"
	"github.com/shopshap/shopshap/app/models"
	"github.com/shopshap/shopshap/app/repositories"
	"github.com/shopshap/shopshap/app/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubAuthClient struct {
	user *services.AuthUser
	err  error
}

func (s *stubAuthClient) AuthorizeURL(state string) string {
	return "https://auth.example.com/oauth/authorize?state=" + state
}

func (s *stubAuthClient) ExchangeCode(code string) (*services.AuthUser, error) {
	return s.user, s.err
}

func (s *stubAuthClient) UserFromToken(token string) (*services.AuthUser, error) {
	return s.user, s.err
}

func seedShop(t *testing.T, db *gorm.DB, userID, slug string) (*models.Seller, *models.Catalogue) {
	t.Helper()
	ctx := context.Background()

	seller := &models.Seller{
		UserID:   userID,
		ShopName: "Safiatou Boutique",
		Currency: "XOF",
		WhatsApp: "+221771234567",
	}
	require.NoError(t, repositories.NewSellerRepository(db).Create(ctx, seller))

	catalogue := &models.Catalogue{SellerID: seller.ID, Slug: slug}
	require.NoError(t, repositories.NewCatalogueRepository(db).Create(ctx, catalogue))
	return seller, catalogue
}

func newAPIHandler(db *gorm.DB, auth services.AuthClient) *APIHandler {
	return NewAPIHandler(
		newTestRender(),
		auth,
		repositories.NewSellerRepository(db),
		repositories.NewCatalogueRepository(db),
		repositories.NewProductRepository(db),
		nil,
	)
}

func TestCatalogueDataHandler(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	productRepo := repositories.NewProductRepository(db)

	_, catalogue := seedShop(t, db, "user-api", "safiatou-boutique")

	visible := &models.Product{
		CatalogueID: catalogue.ID,
		Name:        "Robe wax",
		Price:       decimal.NewFromInt(15000),
		Visible:     true,
	}
	require.NoError(t, productRepo.Create(ctx, visible))

	hidden := &models.Product{
		CatalogueID: catalogue.ID,
		Name:        "Sac en cuir",
		Price:       decimal.NewFromInt(25000),
		Visible:     true,
	}
	require.NoError(t, productRepo.Create(ctx, hidden))
	require.NoError(t, productRepo.SetVisibility(ctx, hidden.ID, false))

	h := newAPIHandler(db, &stubAuthClient{})
	router := mux.NewRouter()
	router.HandleFunc("/api/catalogue/{slug}", h.CatalogueDataHandler).Methods("GET")

	t.Run("unknown slug returns 404", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/catalogue/no-such-shop", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bundle carries seller and visible products only", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/catalogue/safiatou-boutique", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Catalogue models.Catalogue `json:"catalogue"`
			Products  []models.Product `json:"products"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

		require.NotNil(t, body.Catalogue.Seller)
		assert.Equal(t, "Safiatou Boutique", body.Catalogue.Seller.ShopName)
		require.Len(t, body.Products, 1)
		assert.Equal(t, "Robe wax", body.Products[0].Name)
	})
}

func TestDashboardDataHandler(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seller, catalogue := seedShop(t, db, "user-dash", "chez-awa")
	require.NoError(t, repositories.NewProductRepository(db).Create(ctx, &models.Product{
		CatalogueID: catalogue.ID,
		Name:        "Foulard",
		Price:       decimal.NewFromInt(8000),
		Visible:     true,
	}))

	t.Run("no credentials returns 401", func(t *testing.T) {
		h := newAPIHandler(db, &stubAuthClient{err: fmt.Errorf("no token")})
		req := httptest.NewRequest("GET", "/api/dashboard-data", nil)
		rec := httptest.NewRecorder()
		h.DashboardDataHandler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejected bearer token returns 401", func(t *testing.T) {
		h := newAPIHandler(db, &stubAuthClient{err: fmt.Errorf("invalid or expired token: status 401")})
		req := httptest.NewRequest("GET", "/api/dashboard-data", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		h.DashboardDataHandler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bearer token resolves the bundle", func(t *testing.T) {
		h := newAPIHandler(db, &stubAuthClient{user: &services.AuthUser{ID: "user-dash", Email: "awa@example.com"}})
		req := httptest.NewRequest("GET", "/api/dashboard-data", nil)
		req.Header.Set("Authorization", "Bearer tok-123")
		rec := httptest.NewRecorder()
		h.DashboardDataHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Seller   models.Seller    `json:"seller"`
			Products []models.Product `json:"products"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, seller.ID, body.Seller.ID)
		assert.Len(t, body.Products, 1)
	})

	t.Run("session user without a profile needs onboarding", func(t *testing.T) {
		h := newAPIHandler(db, &stubAuthClient{})
		req := httptest.NewRequest("GET", "/api/dashboard-data", nil)
		req = req.WithContext(context.WithValue(req.Context(), helpers.ContextKeyUserID, "user-unknown"))
		rec := httptest.NewRecorder()
		h.DashboardDataHandler(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["needs_onboarding"])
	})
}
