// Package material manages supplies such as packaging and bottles, and who
// they are assigned to.
package material

import (
	"sort"
	"strings"

	"inventario-backend/internal/models"
	"inventario-backend/internal/search"
	"inventario-backend/internal/store"
)

type Store = store.Collection[int, models.Material]

func NewStore() *Store {
	return store.New("materials", func(m models.Material) int { return m.ID }).
		WithValidator(func(m models.Material) error {
			if err := store.Required("name", m.Name, "type", m.Type); err != nil {
				return err
			}
			if m.Quantity < 0 {
				return store.Invalid("quantity", "must not be negative")
			}
			return nil
		}).
		WithUnique("name", func(m models.Material) string { return strings.ToLower(m.Name) }).
		WithSequence(
			func(m *models.Material, n int) { m.ID = n },
			func(m models.Material) int { return m.ID },
		)
}

// UserLookup resolves assignees.
type UserLookup interface {
	Get(id int) (models.User, error)
}

type MaterialInput struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
}

type MaterialPatch struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Quantity    *int    `json:"quantity"`
	Unit        *string `json:"unit"`
}

type Service struct {
	store *Store
	users UserLookup
}

func NewService(s *Store, users UserLookup) *Service {
	return &Service{store: s, users: users}
}

func (s *Service) List() []models.Material { return s.store.List() }

// Search filters by free text and, when kind is set, by exact type
// (case-insensitive).
func (s *Service) Search(query, kind string) []models.Material {
	list := search.Filter(s.store.List(), query, models.Material.SearchFields)
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return list
	}
	out := make([]models.Material, 0, len(list))
	for _, m := range list {
		if strings.EqualFold(m.Type, kind) {
			out = append(out, m)
		}
	}
	return out
}

// Types lists the distinct material types in use, sorted.
func (s *Service) Types() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, m := range s.store.List() {
		if !seen[m.Type] {
			seen[m.Type] = true
			out = append(out, m.Type)
		}
	}
	sort.Strings(out)
	return out
}

func (s *Service) Get(id int) (models.Material, error) { return s.store.Get(id) }

func (s *Service) Create(in MaterialInput) (models.Material, error) {
	return s.store.Create(models.Material{
		Name:        strings.TrimSpace(in.Name),
		Type:        strings.TrimSpace(in.Type),
		Description: in.Description,
		Quantity:    in.Quantity,
		Unit:        strings.TrimSpace(in.Unit),
	})
}

func (s *Service) Update(id int, patch MaterialPatch) (models.Material, error) {
	return s.store.Update(id, func(m *models.Material) error {
		if patch.Name != nil {
			m.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Type != nil {
			m.Type = strings.TrimSpace(*patch.Type)
		}
		if patch.Description != nil {
			m.Description = *patch.Description
		}
		if patch.Quantity != nil {
			m.Quantity = *patch.Quantity
		}
		if patch.Unit != nil {
			m.Unit = strings.TrimSpace(*patch.Unit)
		}
		return nil
	})
}

func (s *Service) Delete(ids ...int) int { return s.store.Delete(ids...) }

// Assign makes userID the assignee of the material, replacing any previous
// one. The user must exist.
func (s *Service) Assign(id, userID int) (models.Material, error) {
	if _, err := s.users.Get(userID); err != nil {
		return models.Material{}, err
	}
	return s.store.Update(id, func(m *models.Material) error {
		m.AssignedUserID = userID
		return nil
	})
}

// AssignedUsers returns the material's assignee, if any, without password
// hash. A deleted assignee is left out.
func (s *Service) AssignedUsers(id int) ([]models.User, error) {
	m, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	out := []models.User{}
	if m.AssignedUserID == 0 {
		return out, nil
	}
	if u, err := s.users.Get(m.AssignedUserID); err == nil {
		out = append(out, u.Public())
	}
	return out, nil
}
