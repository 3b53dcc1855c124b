package store

import (
	"context"
	"errors"

	model "github.com/darksagae/pulse/models"
)

// ErrNotFound is returned when a document id does not exist in the store.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the persistence contract for document records. Update applies
// its mutator under per-id exclusion, so a precondition check inside the mutator
// is atomic with the write that follows it. Implementations return copies; callers
// never share memory with the store.
type DocumentStore interface {
	Create(ctx context.Context, doc *model.Document) error
	GetByID(ctx context.Context, id string) (*model.Document, error)
	// ListByCitizen returns a citizen's documents; the special id "all" lists
	// every document.
	ListByCitizen(ctx context.Context, citizenID string) ([]model.Document, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]model.Document, error)
	ListAll(ctx context.Context) ([]model.Document, error)
	// Update loads the document, applies mutate, and persists the result; the
	// whole sequence is serialized against other updates of the same id. A
	// mutator error aborts the update and is returned unchanged.
	Update(ctx context.Context, id string, mutate func(doc *model.Document) error) (*model.Document, error)
}
