package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	model "github.com/darksagae/pulse/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(id, citizenID string) *model.Document {
	now := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)
	return &model.Document{
		ID:           id,
		CitizenID:    citizenID,
		DocumentType: model.TypeNationalID,
		DepartmentID: model.DeptNira,
		Status:       model.StatusSubmitted,
		Images:       []string{"img-1"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestMemoryStore_GetByIDReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	original := newDoc("d1", "c1")
	require.NoError(t, s.Create(ctx, original))

	// Mutating the caller's document must not touch the stored one.
	original.Status = model.StatusApproved
	original.Images[0] = "tampered"

	stored, err := s.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, stored.Status)
	assert.Equal(t, "img-1", stored.Images[0])

	// And mutating a fetched copy must not leak back either.
	stored.Status = model.StatusRejected
	again, err := s.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, again.Status)
}

func TestMemoryStore_GetByIDNotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListByCitizen(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newDoc("d1", "c1")))
	require.NoError(t, s.Create(ctx, newDoc("d2", "c2")))
	require.NoError(t, s.Create(ctx, newDoc("d3", "c1")))

	docs, err := s.ListByCitizen(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	// "all" is the admin wildcard.
	docs, err = s.ListByCitizen(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	docs, err = s.ListByCitizen(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemoryStore_ListOrdering(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	early := newDoc("d-late-id", "c1")
	late := newDoc("d-a", "c1")
	late.CreatedAt = late.CreatedAt.Add(time.Hour)
	tied := newDoc("d-b", "c1")
	tied.CreatedAt = late.CreatedAt

	require.NoError(t, s.Create(ctx, late))
	require.NoError(t, s.Create(ctx, tied))
	require.NoError(t, s.Create(ctx, early))

	docs, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "d-late-id", docs[0].ID)
	assert.Equal(t, "d-a", docs[1].ID)
	assert.Equal(t, "d-b", docs[2].ID)
}

func TestMemoryStore_UpdateAppliesMutation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newDoc("d1", "c1")))

	updated, err := s.Update(ctx, "d1", func(doc *model.Document) error {
		doc.Status = model.StatusAiProcessed
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAiProcessed, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	stored, err := s.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAiProcessed, stored.Status)
}

func TestMemoryStore_UpdateMutatorErrorAborts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newDoc("d1", "c1")))

	wantErr := fmt.Errorf("wrong state")
	_, err := s.Update(ctx, "d1", func(doc *model.Document) error {
		doc.Status = model.StatusApproved
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	stored, err := s.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, stored.Status)
}

func TestMemoryStore_UpdateNotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Update(context.Background(), "missing", func(doc *model.Document) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ConcurrentUpdatesSerialize(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	doc := newDoc("d1", "c1")
	doc.Description = "0"
	require.NoError(t, s.Create(ctx, doc))

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "d1", func(d *model.Document) error {
				var n int
				fmt.Sscanf(d.Description, "%d", &n)
				d.Description = fmt.Sprintf("%d", n+1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := s.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d", workers), stored.Description)
}
