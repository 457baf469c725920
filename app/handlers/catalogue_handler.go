package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopshap/shopshap/app/helpers"
	"github.com/shopshap/shopshap/app/repositories"
	"github.com/unrolled/render"
)

type CatalogueHandler struct {
	render        *render.Render
	catalogueRepo repositories.CatalogueRepositoryImpl
	productRepo   repositories.ProductRepositoryImpl
}

func NewCatalogueHandler(r *render.Render, catalogueRepo repositories.CatalogueRepositoryImpl, productRepo repositories.ProductRepositoryImpl) *CatalogueHandler {
	return &CatalogueHandler{
		render:        r,
		catalogueRepo: catalogueRepo,
		productRepo:   productRepo,
	}
}

// CataloguePage is the public shop page at /{slug}: the seller's visible
// products, newest first, each card carrying a wa.me order link.
func (h *CatalogueHandler) CataloguePage(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	catalogue, err := h.catalogueRepo.FindBySlug(r.Context(), slug)
	if err != nil {
		log.Printf("CataloguePage: Error loading catalogue %q: %v", slug, err)
		data := helpers.GetBaseData(r, map[string]interface{}{
			"Title": "Erreur",
		})
		_ = h.render.HTML(w, http.StatusInternalServerError, "catalogue/error", data)
		return
	}
	if catalogue == nil || catalogue.Seller == nil {
		data := helpers.GetBaseData(r, map[string]interface{}{
			"Title": "Boutique introuvable",
			"Slug":  slug,
		})
		_ = h.render.HTML(w, http.StatusNotFound, "catalogue/not_found", data)
		return
	}

	products, err := h.productRepo.GetVisibleByCatalogue(r.Context(), catalogue.ID)
	if err != nil {
		log.Printf("CataloguePage: Error loading products for catalogue %s: %v", catalogue.ID, err)
		data := helpers.GetBaseData(r, map[string]interface{}{
			"Title": "Erreur",
		})
		_ = h.render.HTML(w, http.StatusInternalServerError, "catalogue/error", data)
		return
	}

	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":      catalogue.Seller.ShopName,
		"ShopSeller": catalogue.Seller,
		"Catalogue":  catalogue,
		"Products":   products,
	})
	_ = h.render.HTML(w, http.StatusOK, "catalogue/show", data)
}
