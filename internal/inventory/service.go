package inventory

import (
	"errors"
	"strings"
	"time"

	"inventario-backend/internal/models"
	"inventario-backend/internal/search"
	"inventario-backend/internal/store"
)

const DefaultCategory = "Medicamento"

// Recorder receives stock events, typically for metrics.
type Recorder interface {
	StockMoved(kind models.MovementType, quantity int)
	StockOutRejected()
}

type nopRecorder struct{}

func (nopRecorder) StockMoved(models.MovementType, int) {}
func (nopRecorder) StockOutRejected()                   {}

// Service owns the product inventory and its movement log.
type Service struct {
	products        *ProductStore
	movements       *MovementStore
	defaultCategory string
	now             func() time.Time
	recorder        Recorder
}

type Option func(*Service)

func WithDefaultCategory(category string) Option {
	return func(s *Service) {
		if category != "" {
			s.defaultCategory = category
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

func NewService(products *ProductStore, movements *MovementStore, opts ...Option) *Service {
	s := &Service{
		products:        products,
		movements:       movements,
		defaultCategory: DefaultCategory,
		now:             time.Now,
		recorder:        nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ProductInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Stock    int    `json:"stock"`
	Expiry   string `json:"expiry"`
	Status   string `json:"status"`
	Unit     string `json:"unit"`
	MinStock int    `json:"min_stock"`
}

// ProductPatch carries the fields to change; nil fields are left as they are.
type ProductPatch struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Stock    *int    `json:"stock"`
	Expiry   *string `json:"expiry"`
	Status   *string `json:"status"`
	Unit     *string `json:"unit"`
	MinStock *int    `json:"min_stock"`
}

func (s *Service) Products() []models.Product { return s.products.List() }

func (s *Service) SearchProducts(query string) []models.Product {
	return search.Filter(s.products.List(), query, models.Product.SearchFields)
}

func (s *Service) Product(name string) (models.Product, error) {
	return s.products.Get(name)
}

func (s *Service) CreateProduct(in ProductInput) (models.Product, error) {
	p := models.Product{
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
		Stock:    in.Stock,
		Expiry:   in.Expiry,
		Status:   in.Status,
		Unit:     strings.TrimSpace(in.Unit),
		MinStock: in.MinStock,
	}
	if p.Category == "" {
		p.Category = s.defaultCategory
	}
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	p.Status, _ = models.ActiveStatus(p.Status)
	return s.products.Create(p)
}

func (s *Service) UpdateProduct(name string, patch ProductPatch) (models.Product, error) {
	return s.products.Update(name, func(p *models.Product) error {
		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
		}
		set(&p.Category, patch.Category)
		set(&p.Stock, patch.Stock)
		set(&p.Expiry, patch.Expiry)
		if patch.Status != nil {
			p.Status, _ = models.ActiveStatus(*patch.Status)
		}
		set(&p.Unit, patch.Unit)
		set(&p.MinStock, patch.MinStock)
		return nil
	})
}

func (s *Service) DeleteProducts(names ...string) int {
	return s.products.Delete(names...)
}

type StockInInput struct {
	Product     string `json:"product"`
	Quantity    int    `json:"quantity"`
	Expiry      string `json:"expiry"`
	Batch       string `json:"batch"`
	Provider    string `json:"provider"`
	Notes       string `json:"notes"`
	Responsible string `json:"responsible"`
}

type StockOutInput struct {
	Product     string `json:"product"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
	Notes       string `json:"notes"`
	Responsible string `json:"responsible"`
}

// StockResult is the product after a stock operation and the movement that
// records it. Created is set when a stock-in introduced a new product.
type StockResult struct {
	Product  models.Product  `json:"product"`
	Movement models.Movement `json:"movement"`
	Created  bool            `json:"created"`
}

// StockIn adds quantity to the product, creating it when it does not exist
// yet, and keeps the later of the stored and incoming expiry dates.
func (s *Service) StockIn(in StockInInput) (StockResult, error) {
	name := strings.TrimSpace(in.Product)
	if err := store.Required("product", name); err != nil {
		return StockResult{}, err
	}
	if err := validStockQuantity(in.Quantity); err != nil {
		return StockResult{}, err
	}
	if err := validDate("expiry", in.Expiry); err != nil {
		return StockResult{}, err
	}

	before := 0
	p, created, err := s.products.Upsert(name,
		func() models.Product {
			return models.Product{
				Name:     name,
				Category: s.defaultCategory,
				Stock:    in.Quantity,
				Expiry:   in.Expiry,
				Status:   models.StatusActive,
			}
		},
		func(p *models.Product) error {
			before = p.Stock
			applyStockIn(p, in.Quantity, in.Expiry)
			return nil
		},
	)
	if err != nil {
		return StockResult{}, err
	}

	m, err := s.movements.Create(models.Movement{
		Type:        models.MovementIn,
		Product:     p.Name,
		Quantity:    in.Quantity,
		StockBefore: before,
		StockAfter:  p.Stock,
		Expiry:      in.Expiry,
		Batch:       in.Batch,
		Provider:    in.Provider,
		Responsible: in.Responsible,
		Notes:       in.Notes,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return StockResult{}, err
	}
	s.recorder.StockMoved(models.MovementIn, in.Quantity)
	return StockResult{Product: p, Movement: m, Created: created}, nil
}

// StockOut removes quantity from an existing product. Asking for more than
// is in stock fails with *InsufficientStockError and changes nothing.
func (s *Service) StockOut(in StockOutInput) (StockResult, error) {
	name := strings.TrimSpace(in.Product)
	if err := store.Required("product", name); err != nil {
		return StockResult{}, err
	}
	if err := validStockQuantity(in.Quantity); err != nil {
		return StockResult{}, err
	}

	before := 0
	p, err := s.products.Update(name, func(p *models.Product) error {
		before = p.Stock
		return applyStockOut(p, in.Quantity)
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			s.recorder.StockOutRejected()
		}
		return StockResult{}, err
	}

	m, err := s.movements.Create(models.Movement{
		Type:        models.MovementOut,
		Product:     p.Name,
		Quantity:    in.Quantity,
		StockBefore: before,
		StockAfter:  p.Stock,
		Expiry:      p.Expiry,
		Reason:      in.Reason,
		Responsible: in.Responsible,
		Notes:       in.Notes,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return StockResult{}, err
	}
	s.recorder.StockMoved(models.MovementOut, in.Quantity)
	return StockResult{Product: p, Movement: m}, nil
}

func (s *Service) Movements() []models.Movement { return s.movements.List() }

func (s *Service) SearchMovements(query string) []models.Movement {
	return search.Filter(s.movements.List(), query, models.Movement.SearchFields)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
