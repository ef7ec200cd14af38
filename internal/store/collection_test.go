package store

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ticket struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func newTickets() *Collection[string, ticket] {
	return New("tickets", func(t ticket) string { return t.ID }).
		WithValidator(func(t ticket) error { return Required("title", t.Title) }).
		WithSequence(
			func(t *ticket, n int) { t.ID = FormatID("ORD", n) },
			func(t ticket) int { return ParseID(t.ID) },
		)
}

type memPersister struct {
	data  map[string][]byte
	seq   map[string]int
	saves int
	fail  error
}

func newMemPersister() *memPersister {
	return &memPersister{data: map[string][]byte{}, seq: map[string]int{}}
}

func (m *memPersister) Load(name string) ([]byte, int, bool, error) {
	d, ok := m.data[name]
	return d, m.seq[name], ok, nil
}

func (m *memPersister) Save(name string, data []byte, seq int) error {
	m.saves++
	if m.fail != nil {
		return m.fail
	}
	m.data[name] = data
	m.seq[name] = seq
	return nil
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	c := newTickets()

	a, err := c.Create(ticket{Title: "a"})
	require.NoError(t, err)
	b, err := c.Create(ticket{Title: "b"})
	require.NoError(t, err)

	assert.Equal(t, "ORD-001", a.ID)
	assert.Equal(t, "ORD-002", b.ID)
	assert.Equal(t, []ticket{a, b}, c.List())
}

func TestCreateAfterSeedContinuesFromCollectionSize(t *testing.T) {
	c := newTickets()
	c.Seed([]ticket{{ID: "ORD-001", Title: "seed"}})

	o, err := c.Create(ticket{Title: "new"})
	require.NoError(t, err)
	assert.Equal(t, "ORD-002", o.ID)
}

func TestSeedWithUnparsableIDUsesLength(t *testing.T) {
	c := newTickets()
	c.Seed([]ticket{{ID: "LOTE-A", Title: "x"}, {ID: "LOTE-B", Title: "y"}})

	o, err := c.Create(ticket{Title: "z"})
	require.NoError(t, err)
	assert.Equal(t, "ORD-003", o.ID)
}

func TestIDsAreNotReusedAfterDelete(t *testing.T) {
	c := newTickets()
	_, _ = c.Create(ticket{Title: "a"})
	b, _ := c.Create(ticket{Title: "b"})

	require.Equal(t, 1, c.Delete(b.ID))
	again, err := c.Create(ticket{Title: "c"})
	require.NoError(t, err)

	assert.Equal(t, "ORD-003", again.ID)
}

func TestCreateValidation(t *testing.T) {
	c := newTickets()

	_, err := c.Create(ticket{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
	assert.Equal(t, 0, c.Len())

	ok, err := c.Create(ticket{Title: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "ORD-001", ok.ID, "a rejected create must not consume an id")
}

func TestCreateDuplicateKey(t *testing.T) {
	c := New("names", func(s string) string { return s })
	_, err := c.Create("x")
	require.NoError(t, err)

	_, err = c.Create("x")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, c.Len())
}

func TestUpdateMergesPatch(t *testing.T) {
	c := newTickets()
	a, _ := c.Create(ticket{Title: "a"})

	got, err := c.Update(a.ID, func(t *ticket) error {
		t.Title = "renamed"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, ticket{ID: a.ID, Title: "renamed"}, got)

	stored, err := c.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", stored.Title)
}

func TestUpdateMissingKey(t *testing.T) {
	c := newTickets()
	_, err := c.Update("ORD-404", func(*ticket) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePatchErrorLeavesEntityUnchanged(t *testing.T) {
	c := newTickets()
	a, _ := c.Create(ticket{Title: "a"})
	before := c.Version()
	boom := errors.New("boom")

	_, err := c.Update(a.ID, func(t *ticket) error {
		t.Title = "half applied"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, _ := c.Get(a.ID)
	assert.Equal(t, "a", stored.Title)
	assert.Equal(t, before, c.Version())
}

func TestUpdateRevalidates(t *testing.T) {
	c := newTickets()
	a, _ := c.Create(ticket{Title: "a"})

	_, err := c.Update(a.ID, func(t *ticket) error {
		t.Title = ""
		return nil
	})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestMutationsDoNotAliasSnapshots(t *testing.T) {
	c := newTickets()
	a, _ := c.Create(ticket{Title: "a"})
	snapshot := c.List()

	_, _ = c.Update(a.ID, func(t *ticket) error {
		t.Title = "changed"
		return nil
	})
	_, _ = c.Create(ticket{Title: "b"})

	assert.Equal(t, []ticket{{ID: "ORD-001", Title: "a"}}, snapshot)
	assert.Len(t, c.List(), 2)
}

func TestDeleteIsIdempotent(t *testing.T) {
	c := newTickets()
	a, _ := c.Create(ticket{Title: "a"})
	b, _ := c.Create(ticket{Title: "b"})
	_, _ = c.Create(ticket{Title: "c"})

	assert.Equal(t, 2, c.Delete(a.ID, b.ID, "ORD-999"))
	assert.Equal(t, 0, c.Delete(a.ID, b.ID, "ORD-999"))
	assert.Equal(t, 1, c.Len())
}

func TestDeleteWithoutMatchesKeepsVersion(t *testing.T) {
	c := newTickets()
	_, _ = c.Create(ticket{Title: "a"})
	v := c.Version()

	c.Delete("nope")
	assert.Equal(t, v, c.Version())
}

func TestPositionalOperations(t *testing.T) {
	c := New[int, string]("providers", nil)
	c.Seed([]string{"a", "b", "c", "d"})

	got, err := c.At(1)
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	_, err = c.At(10)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := c.UpdateAt(2, func(s *string) error {
		*s = "C"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "C", updated)

	assert.Equal(t, 2, c.DeleteAt(0, 3, 42))
	assert.Equal(t, []string{"b", "C"}, c.List())
	assert.Equal(t, 0, c.Delete(0), "keyless collections ignore key deletes")
}

func TestUpsert(t *testing.T) {
	c := New("stock", func(p ticket) string { return p.ID })

	created, isNew, err := c.Upsert("x",
		func() ticket { return ticket{ID: "x", Title: "fresh"} },
		func(*ticket) error {
			t.Fatal("patch must not run on create")
			return nil
		},
	)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "fresh", created.Title)

	patched, isNew, err := c.Upsert("x",
		func() ticket {
			t.Fatal("create must not run on update")
			return ticket{}
		},
		func(p *ticket) error {
			p.Title = "patched"
			return nil
		},
	)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, "patched", patched.Title)
}

func TestPersisterRoundTrip(t *testing.T) {
	p := newMemPersister()

	c := newTickets().WithPersister(p, nil)
	require.NoError(t, c.Load())
	_, _ = c.Create(ticket{Title: "a"})
	b, _ := c.Create(ticket{Title: "b"})
	c.Delete(b.ID)

	restored := newTickets().WithPersister(p, nil)
	require.NoError(t, restored.Load())
	assert.Equal(t, c.List(), restored.List())

	next, err := restored.Create(ticket{Title: "c"})
	require.NoError(t, err)
	assert.Equal(t, "ORD-003", next.ID, "the persisted sequence survives a reload")
}

func TestLoadWithoutSnapshotWritesSeed(t *testing.T) {
	p := newMemPersister()
	c := newTickets().WithPersister(p, nil)
	c.Seed([]ticket{{ID: "ORD-001", Title: "seed"}})

	require.NoError(t, c.Load())
	assert.Equal(t, 1, p.saves)
	assert.Contains(t, string(p.data["tickets"]), "seed")
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	p := newMemPersister()
	p.fail = errors.New("db down")
	c := newTickets().WithPersister(p, nil)

	_, err := c.Create(ticket{Title: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestParseID(t *testing.T) {
	tests := map[string]int{
		"ORD-001":     1,
		"ORD-1234":    1234,
		"ORD-MORA":    0,
		"plain":       0,
		"ORD-MORA-12": 12,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseID(in), in)
	}
	assert.Equal(t, "ORD-1000", FormatID("ORD", 1000))
}

func TestUniqueFieldOnCreateAndUpdate(t *testing.T) {
	c := newTickets().WithUnique("title", func(t ticket) string { return t.Title })

	a, err := c.Create(ticket{Title: "a"})
	require.NoError(t, err)
	_, err = c.Create(ticket{Title: "b"})
	require.NoError(t, err)

	_, err = c.Create(ticket{Title: "a"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 2, c.Len())

	_, err = c.Update("ORD-002", func(t *ticket) error { t.Title = "a"; return nil })
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = c.Update(a.ID, func(t *ticket) error { t.Title = "a"; return nil })
	assert.NoError(t, err, "an entity does not collide with itself")
}

func TestCreateIfRunsCheckUnderLock(t *testing.T) {
	c := newTickets()
	onlyOne := func(items []ticket) error {
		if len(items) > 0 {
			return errors.New("full")
		}
		return nil
	}

	const workers = 20
	var created atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := c.CreateIf(onlyOne, ticket{Title: fmt.Sprint(i)}); err == nil {
				created.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, created.Load())
	assert.Equal(t, 1, c.Len())
}

func TestUpdateWhere(t *testing.T) {
	c := newTickets()
	c.Seed([]ticket{{ID: "ORD-001", Title: "a"}, {ID: "ORD-002", Title: "b"}})
	before := c.List()
	v := c.Version()

	n := c.UpdateWhere(func(t *ticket) bool {
		if t.Title == "b" {
			t.Title = "B"
			return true
		}
		return false
	})
	assert.Equal(t, 1, n)
	assert.Equal(t, []ticket{{ID: "ORD-001", Title: "a"}, {ID: "ORD-002", Title: "B"}}, c.List())
	assert.Equal(t, "b", before[1].Title)
	assert.Equal(t, v+1, c.Version())

	assert.Zero(t, c.UpdateWhere(func(*ticket) bool { return false }))
	assert.Equal(t, v+1, c.Version())
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	c := newTickets()
	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Create(ticket{Title: "x"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, it := range c.List() {
		seen[it.ID] = true
	}
	assert.Len(t, seen, workers)
}
