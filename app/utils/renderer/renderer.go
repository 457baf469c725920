// renderer/renderer.go
package renderer

import (
	"html/template"

	"github.com/shopshap/shopshap/app/models"
	"github.com/shopshap/shopshap/app/utils/format"
	"github.com/shopshap/shopshap/app/utils/whatsapp"
	"github.com/unrolled/render"
)

func New() *render.Render {
	return render.New(render.Options{
		Layout:     "layout",
		Extensions: []string{".html"},
		Funcs: []template.FuncMap{
			{
				"formatPrice": func(amount interface{}, currency string) string {
					return format.FormatPrice(amount, currency)
				},
				"formatMoney": func(amount interface{}, currency string) string {
					return format.FormatMoney(amount, currency)
				},
				"orderLink": func(seller *models.Seller, product models.Product) string {
					return whatsapp.OrderLink(seller, &product)
				},
				"contactLink": func(seller *models.Seller) string {
					return whatsapp.ContactLink(seller)
				},
				"add": func(a, b int) int { return a + b },
				"sub": func(a, b int) int { return a - b },
			},
		},
	})
}
