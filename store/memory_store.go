package store

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	model "github.com/darksagae/pulse/models"
)

// MemoryStore keeps documents in a process-local map. It backs tests and serves
// as the runtime fallback when no database is reachable at startup.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]*model.Document
	locks map[string]*sync.Mutex
}

// NewMemoryStore returns an empty in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  make(map[string]*model.Document),
		locks: make(map[string]*sync.Mutex),
	}
}

// lockFor returns the per-document mutex, creating it on first use.
func (s *MemoryStore) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func copyDocument(doc *model.Document) *model.Document {
	c := *doc
	c.Images = append(c.Images[:0:0], doc.Images...)
	c.AiExtraction = append(c.AiExtraction[:0:0], doc.AiExtraction...)
	c.AiValidation = append(c.AiValidation[:0:0], doc.AiValidation...)
	c.AiAssessment = append(c.AiAssessment[:0:0], doc.AiAssessment...)
	c.AiFraudAnalysis = append(c.AiFraudAnalysis[:0:0], doc.AiFraudAnalysis...)
	if doc.OfficialReviewedAt != nil {
		t := *doc.OfficialReviewedAt
		c.OfficialReviewedAt = &t
	}
	if doc.AdminReviewedAt != nil {
		t := *doc.AdminReviewedAt
		c.AdminReviewedAt = &t
	}
	return &c
}

func (s *MemoryStore) Create(ctx context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = copyDocument(doc)
	log.Printf("[MemoryStore.Create] Document saved to in-memory storage: %s", doc.ID)
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDocument(doc), nil
}

func (s *MemoryStore) ListByCitizen(ctx context.Context, citizenID string) ([]model.Document, error) {
	return s.list(func(doc *model.Document) bool {
		return citizenID == "all" || doc.CitizenID == citizenID
	}), nil
}

func (s *MemoryStore) ListByDepartment(ctx context.Context, departmentID string) ([]model.Document, error) {
	return s.list(func(doc *model.Document) bool {
		return doc.DepartmentID == departmentID
	}), nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]model.Document, error) {
	return s.list(func(*model.Document) bool { return true }), nil
}

func (s *MemoryStore) list(keep func(*model.Document) bool) []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]model.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		if keep(doc) {
			docs = append(docs, *copyDocument(doc))
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})
	return docs
}

func (s *MemoryStore) Update(ctx context.Context, id string, mutate func(doc *model.Document) error) (*model.Document, error) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	working := copyDocument(doc)
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now()

	s.mu.Lock()
	s.docs[id] = working
	s.mu.Unlock()
	return copyDocument(working), nil
}
