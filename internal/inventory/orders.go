package inventory

import (
	"strings"

	"inventario-backend/internal/models"
	"inventario-backend/internal/search"
)

type Orders struct {
	store *OrderStore
}

func NewOrders(s *OrderStore) *Orders { return &Orders{store: s} }

type OrderInput struct {
	Product       string `json:"product"`
	Responsible   string `json:"responsible"`
	Quantity      int    `json:"quantity"`
	Status        string `json:"status"`
	EstimatedDate string `json:"estimated_date"`
	Supplies      string `json:"supplies"`
}

type OrderPatch struct {
	Product       *string `json:"product"`
	Responsible   *string `json:"responsible"`
	Quantity      *int    `json:"quantity"`
	Status        *string `json:"status"`
	EstimatedDate *string `json:"estimated_date"`
	Supplies      *string `json:"supplies"`
}

func (o *Orders) List() []models.Order { return o.store.List() }

func (o *Orders) Search(query string) []models.Order {
	return search.Filter(o.store.List(), query, models.Order.SearchFields)
}

func (o *Orders) Get(id string) (models.Order, error) { return o.store.Get(id) }

// Create stamps the next ORD-NNN id; the status defaults to Pending.
func (o *Orders) Create(in OrderInput) (models.Order, error) {
	order := models.Order{
		Product:       strings.TrimSpace(in.Product),
		Responsible:   strings.TrimSpace(in.Responsible),
		Quantity:      in.Quantity,
		Status:        in.Status,
		EstimatedDate: in.EstimatedDate,
		Supplies:      in.Supplies,
	}
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	return o.store.Create(order)
}

func (o *Orders) Update(id string, patch OrderPatch) (models.Order, error) {
	return o.store.Update(id, func(order *models.Order) error {
		set(&order.Product, patch.Product)
		set(&order.Responsible, patch.Responsible)
		set(&order.Quantity, patch.Quantity)
		set(&order.Status, patch.Status)
		set(&order.EstimatedDate, patch.EstimatedDate)
		set(&order.Supplies, patch.Supplies)
		return nil
	})
}

func (o *Orders) Delete(ids ...string) int { return o.store.Delete(ids...) }

// OrderSummary counts orders per status. The usual statuses are always
// present; any other status gets its own entry.
type OrderSummary struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

func (o *Orders) Summary() OrderSummary {
	sum := OrderSummary{ByStatus: map[string]int{
		models.StatusPending:    0,
		models.StatusProcessing: 0,
		models.StatusCompleted:  0,
		models.StatusCancelled:  0,
	}}
	for _, order := range o.store.List() {
		sum.Total++
		sum.ByStatus[order.Status]++
	}
	return sum
}
