package services

import (
	"context"
	"testing"
	"time"

	model "github.com/darksagae/pulse/models"
	"github.com/darksagae/pulse/store"

	"github.com/agiledragon/gomonkey/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// FixedTime is used to patch time.Now in tests.
var FixedTime = time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)

func seedDocument(t *testing.T, docStore store.DocumentStore, doc model.Document) {
	t.Helper()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = FixedTime
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}
	require.NoError(t, docStore.Create(context.Background(), &doc))
}

func TestGetOverviewStats_EmptyStore(t *testing.T) {
	svc := newTestService(NewMockExtractor())

	stats, err := svc.GetOverviewStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &OverviewStats{}, stats)
}

func TestGetOverviewStats_CountsByStatusAndBlocks(t *testing.T) {
	docStore := store.NewMemoryStore()
	svc := &ReviewService{store: docStore, extractor: NewMockExtractor()}

	seedDocument(t, docStore, model.Document{ID: "d1", CitizenID: "c1", DepartmentID: model.DeptNira, Status: model.StatusSubmitted})
	seedDocument(t, docStore, model.Document{ID: "d2", CitizenID: "c1", DepartmentID: model.DeptNira, Status: model.StatusAiProcessed})
	seedDocument(t, docStore, model.Document{ID: "d3", CitizenID: "c2", DepartmentID: model.DeptUrsb, Status: model.StatusOfficialReviewed,
		AiExtraction: datatypes.JSON(`{"quality_score":0.9}`)})
	seedDocument(t, docStore, model.Document{ID: "d4", CitizenID: "c2", DepartmentID: model.DeptFinance, Status: model.StatusRejected,
		AiAssessment: datatypes.JSON(`{"assessment_status":"assessed"}`)})
	seedDocument(t, docStore, model.Document{ID: "d5", CitizenID: "c3", DepartmentID: model.DeptHealth, Status: model.StatusApproved,
		AdminReviewedAt: &FixedTime, UpdatedAt: FixedTime})

	patches := gomonkey.ApplyFunc(time.Now, func() time.Time { return FixedTime })
	defer patches.Reset()

	stats, err := svc.GetOverviewStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalDocuments)
	assert.Equal(t, 1, stats.Pending)
	// d2 by status, d3 by its extraction block.
	assert.Equal(t, 2, stats.AiProcessed)
	assert.Equal(t, 1, stats.OfficialReview)
	// d4 by its assessment block, d5 by its review timestamp.
	assert.Equal(t, 2, stats.AdminReview)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 1, stats.CompletedToday)
}

func TestGetOverviewStats_CompletedTodayExcludesOlderApprovals(t *testing.T) {
	docStore := store.NewMemoryStore()
	svc := &ReviewService{store: docStore, extractor: NewMockExtractor()}

	yesterday := FixedTime.AddDate(0, 0, -1)
	seedDocument(t, docStore, model.Document{ID: "old", CitizenID: "c1", DepartmentID: model.DeptNira,
		Status: model.StatusApproved, CreatedAt: yesterday, UpdatedAt: yesterday})
	seedDocument(t, docStore, model.Document{ID: "new", CitizenID: "c1", DepartmentID: model.DeptNira,
		Status: model.StatusApproved, CreatedAt: FixedTime, UpdatedAt: FixedTime})

	patches := gomonkey.ApplyFunc(time.Now, func() time.Time { return FixedTime })
	defer patches.Reset()

	stats, err := svc.GetOverviewStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.CompletedToday)
}

func TestGetDepartmentStats(t *testing.T) {
	docStore := store.NewMemoryStore()
	svc := &ReviewService{store: docStore, extractor: NewMockExtractor()}

	seedDocument(t, docStore, model.Document{ID: "d1", CitizenID: "c1", DepartmentID: model.DeptNira, Status: model.StatusApproved})
	seedDocument(t, docStore, model.Document{ID: "d2", CitizenID: "c1", DepartmentID: model.DeptNira, Status: model.StatusSubmitted})
	seedDocument(t, docStore, model.Document{ID: "d3", CitizenID: "c2", DepartmentID: model.DeptNira, Status: model.StatusOfficialReviewed})
	seedDocument(t, docStore, model.Document{ID: "d4", CitizenID: "c2", DepartmentID: model.DeptImmigration, Status: model.StatusApproved})

	stats, err := svc.GetDepartmentStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, len(model.Departments))

	byDept := make(map[string]DepartmentStats)
	for _, s := range stats {
		byDept[s.Department] = s
	}

	nira := byDept[model.DeptNira]
	assert.Equal(t, 3, nira.Documents)
	assert.Equal(t, 1, nira.Completed)
	assert.Equal(t, 1, nira.Pending)
	assert.InDelta(t, 1.0/3.0, nira.Efficiency, 0.0001)

	immigration := byDept[model.DeptImmigration]
	assert.Equal(t, 1, immigration.Documents)
	assert.InDelta(t, 1.0, immigration.Efficiency, 0.0001)

	// Departments with no documents still appear, with zero efficiency.
	health := byDept[model.DeptHealth]
	assert.Equal(t, 0, health.Documents)
	assert.Zero(t, health.Efficiency)
}
