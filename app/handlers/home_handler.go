package handlers

import (
	"net/http"

	"github.com/shopshap/shopshap/app/helpers"
	"github.com/unrolled/render"
)

type HomeHandler struct {
	render *render.Render
}

func NewHomeHandler(r *render.Render) *HomeHandler {
	return &HomeHandler{render: r}
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title": "ShopShap - Votre boutique WhatsApp",
	})
	_ = h.render.HTML(w, http.StatusOK, "home", data)
}
