// Package supplier manages providers. Providers carry no id; they are
// addressed by their position in the list, so indexes shift after a delete.
package supplier

import (
	"net/mail"
	"strings"

	"inventario-backend/internal/models"
	"inventario-backend/internal/search"
	"inventario-backend/internal/store"
)

type Store = store.Collection[int, models.Provider]

func NewStore() *Store {
	return store.New[int, models.Provider]("providers", nil).
		WithValidator(func(p models.Provider) error {
			if err := store.Required("name", p.Name); err != nil {
				return err
			}
			if p.Email != "" {
				if _, err := mail.ParseAddress(p.Email); err != nil {
					return store.Invalid("email", "invalid address")
				}
			}
			return nil
		})
}

// Entry is a provider together with its current position.
type Entry struct {
	Index int `json:"index"`
	models.Provider
}

type ProviderInput struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	ProductsOffered string `json:"products_offered"`
	Status          string `json:"status"`
}

type ProviderPatch struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone"`
	Email           *string `json:"email"`
	Address         *string `json:"address"`
	ProductsOffered *string `json:"products_offered"`
	Status          *string `json:"status"`
}

type Service struct {
	store *Store
}

func NewService(s *Store) *Service { return &Service{store: s} }

func (s *Service) List() []models.Provider { return s.store.List() }

// Search keeps each match's index so it can be used for updates.
func (s *Service) Search(query string) []Entry {
	list := s.store.List()
	out := make([]Entry, 0, len(list))
	for i, p := range list {
		if search.Matches(p.SearchFields(), query) {
			out = append(out, Entry{Index: i, Provider: p})
		}
	}
	return out
}

func (s *Service) Get(index int) (models.Provider, error) { return s.store.At(index) }

func (s *Service) Create(in ProviderInput) (Entry, error) {
	p := models.Provider{
		Name:            strings.TrimSpace(in.Name),
		Phone:           strings.TrimSpace(in.Phone),
		Email:           strings.TrimSpace(in.Email),
		Address:         strings.TrimSpace(in.Address),
		ProductsOffered: in.ProductsOffered,
		Status:          in.Status,
	}
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	created, err := s.store.Create(p)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Index: s.store.Len() - 1, Provider: created}, nil
}

func (s *Service) Update(index int, patch ProviderPatch) (Entry, error) {
	p, err := s.store.UpdateAt(index, func(p *models.Provider) error {
		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
		}
		set(&p.Phone, patch.Phone)
		if patch.Email != nil {
			p.Email = strings.TrimSpace(*patch.Email)
		}
		set(&p.Address, patch.Address)
		set(&p.ProductsOffered, patch.ProductsOffered)
		set(&p.Status, patch.Status)
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	return Entry{Index: index, Provider: p}, nil
}

// Delete removes the providers at the given positions, all taken before the
// call.
func (s *Service) Delete(indexes ...int) int { return s.store.DeleteAt(indexes...) }

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
