package inventory

import (
	"sort"
	"strings"
	"time"

	"inventario-backend/internal/models"
	"inventario-backend/internal/search"
)

// Batches manages production and intake batches (lotes).
type Batches struct {
	store  *BatchStore
	now    func() time.Time
	window int
}

func NewBatches(s *BatchStore, now func() time.Time) *Batches {
	if now == nil {
		now = time.Now
	}
	return &Batches{store: s, now: now, window: DefaultAlertWindowDays}
}

// WithWindow sets how many days ahead a batch counts as expiring when its
// state is stamped.
func (b *Batches) WithWindow(days int) *Batches {
	if days > 0 {
		b.window = days
	}
	return b
}

type BatchInput struct {
	Product     string `json:"product"`
	IntakeDate  string `json:"intake_date"`
	Expiry      string `json:"expiry"`
	Status      string `json:"status"`
	Responsible string `json:"responsible"`
	Orders      string `json:"orders"`
	Supplies    string `json:"supplies"`
}

type BatchPatch struct {
	Product     *string `json:"product"`
	IntakeDate  *string `json:"intake_date"`
	Expiry      *string `json:"expiry"`
	Status      *string `json:"status"`
	Responsible *string `json:"responsible"`
	Orders      *string `json:"orders"`
	Supplies    *string `json:"supplies"`
}

func (b *Batches) List() []models.Batch { return b.store.List() }

func (b *Batches) Search(query string) []models.Batch {
	return search.Filter(b.store.List(), query, models.Batch.SearchFields)
}

func (b *Batches) Get(id string) (models.Batch, error) { return b.store.Get(id) }

// Create stamps the next ORD-NNN id. The intake date defaults to today and
// the status to Active.
func (b *Batches) Create(in BatchInput) (models.Batch, error) {
	batch := models.Batch{
		Product:     strings.TrimSpace(in.Product),
		IntakeDate:  in.IntakeDate,
		Expiry:      in.Expiry,
		Status:      in.Status,
		Responsible: strings.TrimSpace(in.Responsible),
		Orders:      in.Orders,
		Supplies:    in.Supplies,
	}
	if batch.IntakeDate == "" {
		batch.IntakeDate = b.now().Format(models.DateLayout)
	}
	if batch.Status == "" {
		batch.Status = models.StatusActive
	}
	batch.ExpiryState = ClassifyExpiry(batch.Expiry, b.now(), b.window)
	return b.store.Create(batch)
}

// Update never touches the id.
func (b *Batches) Update(id string, patch BatchPatch) (models.Batch, error) {
	return b.store.Update(id, func(batch *models.Batch) error {
		set(&batch.Product, patch.Product)
		set(&batch.IntakeDate, patch.IntakeDate)
		set(&batch.Expiry, patch.Expiry)
		set(&batch.Status, patch.Status)
		set(&batch.Responsible, patch.Responsible)
		set(&batch.Orders, patch.Orders)
		set(&batch.Supplies, patch.Supplies)
		batch.ExpiryState = ClassifyExpiry(batch.Expiry, b.now(), b.window)
		return nil
	})
}

func (b *Batches) Delete(ids ...string) int { return b.store.Delete(ids...) }

// Expiring lists the batches that are not inactive and expire between today
// and days ahead, soonest first.
func (b *Batches) Expiring(days int) []models.Batch {
	return b.byState(models.ExpiryExpiring, days)
}

// Expired lists the batches that are not inactive and expired before today,
// oldest first.
func (b *Batches) Expired() []models.Batch {
	return b.byState(models.ExpiryExpired, b.window)
}

func (b *Batches) byState(state string, days int) []models.Batch {
	today := b.now()
	out := []models.Batch{}
	for _, batch := range b.store.List() {
		if batch.Status == models.StatusInactive || batch.Expiry == "" {
			continue
		}
		if ClassifyExpiry(batch.Expiry, today, days) == state {
			out = append(out, batch)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Expiry < out[j].Expiry })
	return out
}

// RefreshExpiryStates restamps the expiry state of every batch that is not
// inactive and returns how many changed.
func (b *Batches) RefreshExpiryStates() int {
	today := b.now()
	return b.store.UpdateWhere(func(batch *models.Batch) bool {
		if batch.Status == models.StatusInactive {
			return false
		}
		state := ClassifyExpiry(batch.Expiry, today, b.window)
		if batch.ExpiryState == state {
			return false
		}
		batch.ExpiryState = state
		return true
	})
}
