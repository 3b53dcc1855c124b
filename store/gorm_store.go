package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	model "github.com/darksagae/pulse/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists documents in postgres through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, doc *model.Document) error {
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		log.Printf("[GormStore.Create] Error saving document %s: %v", doc.ID, err)
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (s *GormStore) GetByID(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	return &doc, nil
}

func (s *GormStore) ListByCitizen(ctx context.Context, citizenID string) ([]model.Document, error) {
	if citizenID == "all" {
		return s.ListAll(ctx)
	}
	var docs []model.Document
	if err := s.db.WithContext(ctx).Where("citizen_id = ?", citizenID).Order("created_at").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch citizen documents: %w", err)
	}
	return docs, nil
}

func (s *GormStore) ListByDepartment(ctx context.Context, departmentID string) ([]model.Document, error) {
	var docs []model.Document
	if err := s.db.WithContext(ctx).Where("department_id = ?", departmentID).Order("created_at").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch department documents: %w", err)
	}
	return docs, nil
}

func (s *GormStore) ListAll(ctx context.Context) ([]model.Document, error) {
	var docs []model.Document
	if err := s.db.WithContext(ctx).Order("created_at").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return docs, nil
}

// Update runs read-mutate-write inside a transaction with a row lock, so two
// concurrent transitions on the same document cannot both pass their
// precondition checks.
func (s *GormStore) Update(ctx context.Context, id string, mutate func(doc *model.Document) error) (*model.Document, error) {
	var updated model.Document
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc model.Document
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&doc, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock document: %w", err)
		}
		if err := mutate(&doc); err != nil {
			return err
		}
		doc.UpdatedAt = time.Now()
		if err := tx.Save(&doc).Error; err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
