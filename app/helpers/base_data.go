package helpers

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/shopshap/shopshap/app/models"
)

func GetBaseData(r *http.Request, pageSpecificData map[string]interface{}) map[string]interface{} {
	if pageSpecificData == nil {
		pageSpecificData = make(map[string]interface{})
	}

	if _, exists := pageSpecificData["Title"]; !exists {
		pageSpecificData["Title"] = "ShopShap"
	}
	if _, exists := pageSpecificData["IsLoggedIn"]; !exists {
		pageSpecificData["IsLoggedIn"] = false
	}

	if userID, ok := r.Context().Value(ContextKeyUserID).(string); ok && userID != "" {
		pageSpecificData["IsLoggedIn"] = true
		pageSpecificData["UserID"] = userID
	}

	if seller, ok := r.Context().Value(ContextKeySeller).(*models.Seller); ok && seller != nil {
		pageSpecificData["Seller"] = seller
	}

	pageSpecificData["CSRFField"] = csrf.TemplateField(r)

	return pageSpecificData
}
