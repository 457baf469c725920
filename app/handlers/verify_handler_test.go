package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopshap/shopshap/app/models"
	"github.com/shopshap/shopshap/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubCodeSender struct {
	dev      bool
	sendErr  error
	sentTo   string
	sentCode string
	calls    int
}

func (s *stubCodeSender) SendVerificationCode(phoneNumber, code string) error {
	s.calls++
	s.sentTo = phoneNumber
	s.sentCode = code
	return s.sendErr
}

func (s *stubCodeSender) DevMode() bool { return s.dev }

func seedVerifySeller(t *testing.T, db *gorm.DB, userID string) *models.Seller {
	t.Helper()

	seller := &models.Seller{
		UserID:   userID,
		ShopName: "Chez Awa",
		Currency: "XOF",
		WhatsApp: "+221771234567",
	}
	require.NoError(t, repositories.NewSellerRepository(db).Create(context.Background(), seller))
	return seller
}

func postJSON(t *testing.T, handler http.HandlerFunc, url string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func TestSendVerificationHandler(t *testing.T) {
	db := newTestDB(t)
	sellerRepo := repositories.NewSellerRepository(db)

	t.Run("unknown seller returns 404", func(t *testing.T) {
		sender := &stubCodeSender{}
		h := NewVerifyHandler(newTestRender(), sellerRepo, sender)

		rec, body := postJSON(t, h.SendVerificationHandler, "/api/send-verification", map[string]string{
			"phone_number": "+221771234567",
			"seller_id":    "no-such-seller",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotEmpty(t, body["error"])
		assert.Zero(t, sender.calls)
	})

	t.Run("missing fields return 400", func(t *testing.T) {
		h := NewVerifyHandler(newTestRender(), sellerRepo, &stubCodeSender{})

		rec, _ := postJSON(t, h.SendVerificationHandler, "/api/send-verification", map[string]string{
			"phone_number": "+221771234567",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("stores a 6-digit code and delivers it", func(t *testing.T) {
		seller := seedVerifySeller(t, db, "user-verify")
		sender := &stubCodeSender{}
		h := NewVerifyHandler(newTestRender(), sellerRepo, sender)

		rec, body := postJSON(t, h.SendVerificationHandler, "/api/send-verification", map[string]string{
			"phone_number": seller.WhatsApp,
			"seller_id":    seller.ID,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		assert.NotContains(t, body, "dev_code")

		assert.Equal(t, 1, sender.calls)
		assert.Equal(t, seller.WhatsApp, sender.sentTo)
		assert.Len(t, sender.sentCode, 6)

		stored, err := sellerRepo.FindByID(context.Background(), seller.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.VerificationCode)
		assert.Equal(t, sender.sentCode, *stored.VerificationCode)
		require.NotNil(t, stored.VerificationExpiresAt)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), *stored.VerificationExpiresAt, time.Minute)
	})

	t.Run("dev mode echoes the code", func(t *testing.T) {
		seller := seedVerifySeller(t, db, "user-verify-dev")
		sender := &stubCodeSender{dev: true}
		h := NewVerifyHandler(newTestRender(), sellerRepo, sender)

		rec, body := postJSON(t, h.SendVerificationHandler, "/api/send-verification", map[string]string{
			"phone_number": seller.WhatsApp,
			"seller_id":    seller.ID,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, sender.sentCode, body["dev_code"])
	})

	t.Run("delivery failure keeps the stored code", func(t *testing.T) {
		seller := seedVerifySeller(t, db, "user-verify-fail")
		sender := &stubCodeSender{sendErr: fmt.Errorf("twilio error: status 401")}
		h := NewVerifyHandler(newTestRender(), sellerRepo, sender)

		rec, _ := postJSON(t, h.SendVerificationHandler, "/api/send-verification", map[string]string{
			"phone_number": seller.WhatsApp,
			"seller_id":    seller.ID,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		stored, err := sellerRepo.FindByID(context.Background(), seller.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.VerificationCode)
	})
}

func TestVerifyCodeHandler(t *testing.T) {
	db := newTestDB(t)
	sellerRepo := repositories.NewSellerRepository(db)
	ctx := context.Background()

	seller := seedVerifySeller(t, db, "user-verify")
	h := NewVerifyHandler(newTestRender(), sellerRepo, &stubCodeSender{})

	t.Run("no pending code returns 400", func(t *testing.T) {
		rec, _ := postJSON(t, h.VerifyCodeHandler, "/api/verify-code", map[string]string{
			"seller_id": seller.ID,
			"code":      "123456",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown seller returns 404", func(t *testing.T) {
		rec, _ := postJSON(t, h.VerifyCodeHandler, "/api/verify-code", map[string]string{
			"seller_id": "no-such-seller",
			"code":      "123456",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong code returns 400", func(t *testing.T) {
		require.NoError(t, sellerRepo.SetVerificationCode(ctx, seller.ID, "123456", time.Now().Add(10*time.Minute)))

		rec, _ := postJSON(t, h.VerifyCodeHandler, "/api/verify-code", map[string]string{
			"seller_id": seller.ID,
			"code":      "999999",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		stored, err := sellerRepo.FindByID(ctx, seller.ID)
		require.NoError(t, err)
		assert.False(t, stored.WhatsAppVerified)
	})

	t.Run("expired code returns 400", func(t *testing.T) {
		require.NoError(t, sellerRepo.SetVerificationCode(ctx, seller.ID, "123456", time.Now().Add(-time.Minute)))

		rec, _ := postJSON(t, h.VerifyCodeHandler, "/api/verify-code", map[string]string{
			"seller_id": seller.ID,
			"code":      "123456",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("matching code verifies and cannot be replayed", func(t *testing.T) {
		require.NoError(t, sellerRepo.SetVerificationCode(ctx, seller.ID, "123456", time.Now().Add(10*time.Minute)))

		rec, body := postJSON(t, h.VerifyCodeHandler, "/api/verify-code", map[string]string{
			"seller_id": seller.ID,
			"code":      "123456",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])

		stored, err := sellerRepo.FindByID(ctx, seller.ID)
		require.NoError(t, err)
		assert.True(t, stored.WhatsAppVerified)
		assert.Nil(t, stored.VerificationCode)

		rec, _ = postJSON(t, h.VerifyCodeHandler, "/api/verify-code", map[string]string{
			"seller_id": seller.ID,
			"code":      "123456",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
