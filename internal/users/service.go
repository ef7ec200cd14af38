// Package users manages accounts and password checks.
package users

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"inventario-backend/internal/models"
	"inventario-backend/internal/search"
	"inventario-backend/internal/store"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid document or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrAdminExists        = errors.New("an admin account already exists")
	ErrWrongPassword      = errors.New("current password does not match")
)

type Store = store.Collection[int, models.User]

func NewStore() *Store {
	return store.New("users", func(u models.User) int { return u.ID }).
		WithValidator(func(u models.User) error {
			if err := store.Required("document", u.Document, "name", u.Name); err != nil {
				return err
			}
			if !u.Role.Valid() {
				return store.Invalid("role", "unknown role")
			}
			if u.Status != models.StatusActive && u.Status != models.StatusInactive {
				return store.Invalid("status", "must be Active or Inactive")
			}
			return nil
		}).
		WithUnique("document", func(u models.User) string { return u.Document }).
		WithSequence(
			func(u *models.User, n int) { u.ID = n },
			func(u models.User) int { return u.ID },
		)
}

type Service struct {
	store *Store
	now   func() time.Time
	cost  int
}

func NewService(s *Store) *Service {
	return &Service{store: s, now: time.Now, cost: bcrypt.DefaultCost}
}

// WithCost sets the bcrypt cost; tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

type RegisterInput struct {
	Document string          `json:"document"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

type UserPatch struct {
	Name     *string          `json:"name"`
	Document *string          `json:"document"`
	Email    *string          `json:"email"`
	Role     *models.UserRole `json:"role"`
	Status   *string          `json:"status"`
	Password *string          `json:"password"`
}

// Register creates an active account. Documents are unique, and the admin
// role can only be taken while no admin with a password exists.
func (s *Service) Register(in RegisterInput) (models.User, error) {
	in.Document = strings.TrimSpace(in.Document)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if err := store.Required("document", in.Document, "name", in.Name, "password", in.Password); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	// The admin check and the insert share one lock so concurrent
	// registrations cannot both claim the role.
	return s.store.CreateIf(func(existing []models.User) error {
		if in.Role == models.RoleAdmin && hasAdmin(existing) {
			return ErrAdminExists
		}
		return nil
	}, models.User{
		Name:         in.Name,
		Document:     in.Document,
		Email:        in.Email,
		Role:         in.Role,
		Status:       models.StatusActive,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	})
}

// Authenticate checks a document and password pair. Accounts without a
// password never authenticate.
func (s *Service) Authenticate(document, password string) (models.User, error) {
	u, ok := s.ByDocument(strings.TrimSpace(document))
	if !ok || !u.HasCredentials() {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if u.Status == models.StatusInactive {
		return models.User{}, ErrInactiveUser
	}
	return u, nil
}

func (s *Service) ByDocument(document string) (models.User, bool) {
	return s.store.Find(func(u models.User) bool { return u.Document == document })
}

func hasAdmin(list []models.User) bool {
	for _, u := range list {
		if u.Role == models.RoleAdmin && u.HasCredentials() {
			return true
		}
	}
	return false
}

func (s *Service) Get(id int) (models.User, error) { return s.store.Get(id) }

func (s *Service) List() []models.User { return s.store.List() }

func (s *Service) Search(query string) []models.User {
	return search.Filter(s.store.List(), query, models.User.SearchFields)
}

func (s *Service) Update(id int, patch UserPatch) (models.User, error) {
	var hash string
	if patch.Password != nil {
		if *patch.Password == "" {
			return models.User{}, store.Invalid("password", "required")
		}
		b, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.cost)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		hash = string(b)
	}
	if patch.Document != nil {
		doc := strings.TrimSpace(*patch.Document)
		patch.Document = &doc
	}
	if patch.Status != nil {
		// Unknown values are kept so the validator rejects them.
		if st, ok := models.ActiveStatus(*patch.Status); ok {
			patch.Status = &st
		}
	}

	return s.store.Update(id, func(u *models.User) error {
		if patch.Name != nil {
			u.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Document != nil {
			u.Document = *patch.Document
		}
		if patch.Email != nil {
			u.Email = strings.TrimSpace(strings.ToLower(*patch.Email))
		}
		if patch.Role != nil {
			u.Role = *patch.Role
		}
		if patch.Status != nil {
			u.Status = *patch.Status
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		return nil
	})
}

// ChangePassword replaces the password of the account after checking the
// current one.
func (s *Service) ChangePassword(id int, current, next string) error {
	if err := store.Required("new_password", next); err != nil {
		return err
	}
	u, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if !u.HasCredentials() || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.store.Update(id, func(stored *models.User) error {
		if stored.PasswordHash != u.PasswordHash {
			return ErrWrongPassword
		}
		stored.PasswordHash = string(hash)
		return nil
	})
	return err
}

func (s *Service) Delete(ids ...int) int { return s.store.Delete(ids...) }

// Public strips password hashes from a list of users.
func Public(list []models.User) []models.User {
	out := make([]models.User, len(list))
	for i, u := range list {
		out[i] = u.Public()
	}
	return out
}
