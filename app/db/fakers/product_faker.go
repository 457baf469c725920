package fakers

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopshap/shopshap/app/models"
	"github.com/shopspring/decimal"
)

var demoProducts = []struct {
	Name        string
	Description string
	Price       int64
}{
	{"Robe wax", "Robe en tissu wax, coupe ample, tailles S à XL.", 15000},
	{"Sac en cuir", "Sac à main en cuir véritable, fait main.", 25000},
	{"Boucles d'oreilles", "Boucles d'oreilles artisanales en laiton doré.", 5000},
	{"Foulard en soie", "Foulard imprimé, 90x90 cm.", 8000},
	{"Sandales tressées", "Sandales en cuir tressé, semelle confort.", 12000},
}

func ProductFaker(catalogueID string) *models.Product {
	p := demoProducts[rand.Intn(len(demoProducts))]
	productID := uuid.New().String()

	imageURL := fmt.Sprintf("/images/products/demo-%d.jpg", rand.Intn(3)+1)

	return &models.Product{
		ID:          productID,
		CatalogueID: catalogueID,
		Name:        p.Name,
		Description: p.Description,
		Price:       decimal.NewFromInt(p.Price),
		ImageURL:    imageURL,
		Visible:     true,
		Images: []models.ProductImage{
			{
				ID:        uuid.New().String(),
				ProductID: productID,
				ImageURL:  imageURL,
				Position:  0,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
