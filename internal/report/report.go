// Package report derives report views from the movement log and the audit
// trail.
package report

import (
	"strconv"
	"strings"

	"inventario-backend/internal/models"
)

// Row is one line of the movements report.
type Row struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Batch       string `json:"batch"`
	Product     string `json:"product"`
	Quantity    int    `json:"quantity"`
	Responsible string `json:"responsible"`
}

func (r Row) SearchFields() []string {
	return []string{r.Date, r.Type, r.Batch, r.Product, strconv.Itoa(r.Quantity), r.Responsible}
}

func typeLabel(t models.MovementType) string {
	if t == models.MovementOut {
		return "Salida"
	}
	return "Entrada"
}

func Rows(movements []models.Movement) []Row {
	out := make([]Row, 0, len(movements))
	for _, m := range movements {
		out = append(out, Row{
			Date:        m.CreatedAt.Format(models.DateLayout),
			Type:        typeLabel(m.Type),
			Batch:       m.Batch,
			Product:     m.Product,
			Quantity:    m.Quantity,
			Responsible: m.Responsible,
		})
	}
	return out
}

type ProductTotal struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type ProviderReport struct {
	Provider   models.Provider `json:"provider"`
	Products   []ProductTotal  `json:"products"`
	Deliveries int             `json:"deliveries"`
}

// ForProvider totals the stock-ins received from p, per product in the order
// products were first delivered. Provider names compare case-insensitively.
func ForProvider(p models.Provider, movements []models.Movement) ProviderReport {
	rep := ProviderReport{Provider: p, Products: []ProductTotal{}}
	name := strings.TrimSpace(p.Name)
	index := map[string]int{}
	for _, m := range movements {
		if m.Type != models.MovementIn || !strings.EqualFold(strings.TrimSpace(m.Provider), name) {
			continue
		}
		rep.Deliveries++
		i, ok := index[m.Product]
		if !ok {
			i = len(rep.Products)
			index[m.Product] = i
			rep.Products = append(rep.Products, ProductTotal{Name: m.Product})
		}
		rep.Products[i].Quantity += m.Quantity
	}
	return rep
}
