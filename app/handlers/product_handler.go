package handlers

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopshap/shopshap/app/helpers"
	"github.com/shopshap/shopshap/app/models"
	"github.com/shopspring/decimal"
)

const (
	maxUploadBytes  = 10 << 20 // per file, matches the bucket's file size limit
	maxRequestBytes = 64 << 20 // whole multipart body, primary + secondary images
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type ProductForm struct {
	Name        string `form:"name" validate:"required,min=1,max=255"`
	Description string `form:"description" validate:"max=2000"`
	Price       string `form:"price" validate:"required"`
}

func (h *DashboardHandler) AddProductPage(w http.ResponseWriter, r *http.Request) {
	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":      "Ajouter un produit",
		"FormAction": "/dashboard/products",
		"IsEdit":     false,
		"FormData":   &ProductForm{},
		"Errors":     map[string]string{},
	})
	_ = h.render.HTML(w, http.StatusOK, "dashboard/product_form", data)
}

func (h *DashboardHandler) AddProductPost(w http.ResponseWriter, r *http.Request) {
	seller := r.Context().Value(helpers.ContextKeySeller).(*models.Seller)

	catalogue, err := h.catalogueRepo.FindBySellerID(r.Context(), seller.ID)
	if err != nil || catalogue == nil {
		log.Printf("AddProductPost: No catalogue for seller %s: %v", seller.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Catalogue introuvable.")), http.StatusSeeOther)
		return
	}

	form, price, errors := h.parseProductForm(w, r)
	if len(errors) > 0 {
		data := helpers.GetBaseData(r, map[string]interface{}{
			"Title":      "Ajouter un produit",
			"FormAction": "/dashboard/products",
			"IsEdit":     false,
			"FormData":   form,
			"Errors":     errors,
		})
		_ = h.render.HTML(w, http.StatusOK, "dashboard/product_form", data)
		return
	}

	product := &models.Product{
		CatalogueID: catalogue.ID,
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		Visible:     true,
	}

	imageURL, err := h.uploadFormImage(r, "image")
	if err != nil {
		log.Printf("AddProductPost: Image upload failed for seller %s: %v", seller.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Échec de l'envoi de l'image.")), http.StatusSeeOther)
		return
	}
	product.ImageURL = imageURL

	if err := h.productRepo.Create(r.Context(), product); err != nil {
		log.Printf("AddProductPost: Error creating product for catalogue %s: %v", catalogue.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Impossible d'ajouter le produit.")), http.StatusSeeOther)
		return
	}

	if err := h.uploadSecondaryImages(r, product.ID, 0); err != nil {
		log.Printf("AddProductPost: Secondary image upload failed for product %s: %v", product.ID, err)
	}

	log.Printf("✅ Product %s added to catalogue %s", product.ID, catalogue.ID)
	http.Redirect(w, r, fmt.Sprintf("/dashboard?status=success&message=%s", url.QueryEscape("Produit ajouté.")), http.StatusSeeOther)
}

func (h *DashboardHandler) EditProductPage(w http.ResponseWriter, r *http.Request) {
	product, ok := h.ownedProduct(w, r)
	if !ok {
		return
	}

	form := &ProductForm{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.String(),
	}

	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":      "Modifier le produit",
		"FormAction": "/dashboard/products/" + product.ID,
		"IsEdit":     true,
		"Product":    product,
		"FormData":   form,
		"Errors":     map[string]string{},
	})
	_ = h.render.HTML(w, http.StatusOK, "dashboard/product_form", data)
}

func (h *DashboardHandler) EditProductPost(w http.ResponseWriter, r *http.Request) {
	product, ok := h.ownedProduct(w, r)
	if !ok {
		return
	}

	form, price, errors := h.parseProductForm(w, r)
	if len(errors) > 0 {
		data := helpers.GetBaseData(r, map[string]interface{}{
			"Title":      "Modifier le produit",
			"FormAction": "/dashboard/products/" + product.ID,
			"IsEdit":     true,
			"Product":    product,
			"FormData":   form,
			"Errors":     errors,
		})
		_ = h.render.HTML(w, http.StatusOK, "dashboard/product_form", data)
		return
	}

	newImageURL, err := h.uploadFormImage(r, "image")
	if err != nil {
		log.Printf("EditProductPost: Image upload failed for product %s: %v", product.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Échec de l'envoi de l'image.")), http.StatusSeeOther)
		return
	}

	oldImageURL := product.ImageURL
	product.Name = form.Name
	product.Description = form.Description
	product.Price = price
	if newImageURL != "" {
		product.ImageURL = newImageURL
	}

	if err := h.productRepo.Update(r.Context(), product); err != nil {
		log.Printf("EditProductPost: Error updating product %s: %v", product.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Impossible de modifier le produit.")), http.StatusSeeOther)
		return
	}

	if newImageURL != "" && oldImageURL != "" {
		if err := h.storage.DeleteByURL(r.Context(), oldImageURL); err != nil {
			log.Printf("EditProductPost: Failed to delete replaced blob %s: %v", oldImageURL, err)
		}
	}

	next, err := h.imageRepo.NextPosition(r.Context(), product.ID)
	if err != nil {
		log.Printf("EditProductPost: Error computing next image position for product %s: %v", product.ID, err)
		next = len(product.Images)
	}
	if err := h.uploadSecondaryImages(r, product.ID, next); err != nil {
		log.Printf("EditProductPost: Secondary image upload failed for product %s: %v", product.ID, err)
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard?status=success&message=%s", url.QueryEscape("Produit modifié.")), http.StatusSeeOther)
}

func (h *DashboardHandler) DeleteProductPost(w http.ResponseWriter, r *http.Request) {
	product, ok := h.ownedProduct(w, r)
	if !ok {
		return
	}

	blobURLs := make([]string, 0, len(product.Images)+1)
	if product.ImageURL != "" {
		blobURLs = append(blobURLs, product.ImageURL)
	}
	for _, img := range product.Images {
		blobURLs = append(blobURLs, img.ImageURL)
	}

	if err := h.productRepo.Delete(r.Context(), product.ID); err != nil {
		log.Printf("DeleteProductPost: Error deleting product %s: %v", product.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Impossible de supprimer le produit.")), http.StatusSeeOther)
		return
	}

	for _, blobURL := range blobURLs {
		if err := h.storage.DeleteByURL(r.Context(), blobURL); err != nil {
			log.Printf("DeleteProductPost: Failed to delete blob %s: %v", blobURL, err)
		}
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard?status=success&message=%s", url.QueryEscape("Produit supprimé.")), http.StatusSeeOther)
}

func (h *DashboardHandler) ToggleVisibilityPost(w http.ResponseWriter, r *http.Request) {
	product, ok := h.ownedProduct(w, r)
	if !ok {
		return
	}

	if err := h.productRepo.SetVisibility(r.Context(), product.ID, !product.Visible); err != nil {
		log.Printf("ToggleVisibilityPost: Error toggling product %s: %v", product.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Impossible de changer la visibilité.")), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *DashboardHandler) DeleteProductImagePost(w http.ResponseWriter, r *http.Request) {
	product, ok := h.ownedProduct(w, r)
	if !ok {
		return
	}

	imageID := mux.Vars(r)["imageID"]
	image, err := h.imageRepo.Delete(r.Context(), imageID)
	if err != nil {
		log.Printf("DeleteProductImagePost: Error deleting image %s: %v", imageID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Impossible de supprimer l'image.")), http.StatusSeeOther)
		return
	}
	if image != nil && image.ProductID == product.ID && image.ImageURL != "" {
		if err := h.storage.DeleteByURL(r.Context(), image.ImageURL); err != nil {
			log.Printf("DeleteProductImagePost: Failed to delete blob %s: %v", image.ImageURL, err)
		}
	}

	http.Redirect(w, r, "/dashboard/products/"+product.ID+"/edit", http.StatusSeeOther)
}

// ownedProduct loads the product from the route and checks it belongs to the
// signed-in seller's catalogue. Writes the redirect itself when it fails.
func (h *DashboardHandler) ownedProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	seller := r.Context().Value(helpers.ContextKeySeller).(*models.Seller)

	productID := mux.Vars(r)["id"]
	product, err := h.productRepo.GetByID(r.Context(), productID)
	if err != nil {
		log.Printf("ownedProduct: Error loading product %s: %v", productID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Erreur serveur.")), http.StatusSeeOther)
		return nil, false
	}
	if product == nil {
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Produit introuvable.")), http.StatusSeeOther)
		return nil, false
	}

	catalogue, err := h.catalogueRepo.FindBySellerID(r.Context(), seller.ID)
	if err != nil || catalogue == nil || product.CatalogueID != catalogue.ID {
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Produit introuvable.")), http.StatusSeeOther)
		return nil, false
	}

	return product, true
}

func (h *DashboardHandler) parseProductForm(w http.ResponseWriter, r *http.Request) (*ProductForm, decimal.Decimal, map[string]string) {
	errors := map[string]string{}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		errors["Form"] = "Erreur lors du traitement du formulaire. Les images ne doivent pas dépasser 10 Mo."
		return &ProductForm{}, decimal.Zero, errors
	}

	form := &ProductForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Price:       r.PostFormValue("price"),
	}

	if err := h.validator.Struct(form); err != nil {
		errors = helpers.FormatValidationErrors(err.(validator.ValidationErrors))
	}

	price := decimal.Zero
	if form.Price != "" {
		parsed, err := decimal.NewFromString(form.Price)
		switch {
		case err != nil:
			errors["Price"] = "Le prix doit être un nombre."
		case parsed.IsNegative():
			errors["Price"] = "Le prix ne peut pas être négatif."
		default:
			price = parsed
		}
	}

	return form, price, errors
}

// uploadFormImage streams the named multipart file to object storage and
// returns its public URL, or "" when no file was attached.
func (h *DashboardHandler) uploadFormImage(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read form file: %w", err)
	}
	defer file.Close()

	return h.uploadImage(r, file, header)
}

func (h *DashboardHandler) uploadImage(r *http.Request, file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > maxUploadBytes {
		return "", fmt.Errorf("image %q exceeds the %d byte limit", header.Filename, maxUploadBytes)
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := "products/" + uuid.New().String() + ext

	publicURL, err := h.storage.Upload(r.Context(), key, file, contentType)
	if err != nil {
		return "", err
	}
	return publicURL, nil
}

func (h *DashboardHandler) uploadSecondaryImages(r *http.Request, productID string, startPosition int) error {
	if r.MultipartForm == nil {
		return nil
	}

	files := r.MultipartForm.File["images"]
	for i, header := range files {
		file, err := header.Open()
		if err != nil {
			return fmt.Errorf("failed to open secondary image: %w", err)
		}

		publicURL, err := h.uploadImage(r, file, header)
		file.Close()
		if err != nil {
			return err
		}

		image := &models.ProductImage{
			ProductID: productID,
			ImageURL:  publicURL,
			Position:  startPosition + i,
		}
		if err := h.imageRepo.Create(r.Context(), image); err != nil {
			return fmt.Errorf("failed to save secondary image row: %w", err)
		}
	}
	return nil
}
