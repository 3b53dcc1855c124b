package services

import (
	"context"
	"time"

	model "github.com/darksagae/pulse/models"
)

// OverviewStats is the pipeline-wide dashboard snapshot.
type OverviewStats struct {
	TotalDocuments int `json:"total_documents"`
	Pending        int `json:"pending"`
	AiProcessed    int `json:"ai_processed"`
	OfficialReview int `json:"official_review"`
	AdminReview    int `json:"admin_review"`
	Completed      int `json:"completed"`
	Rejected       int `json:"rejected"`
	CompletedToday int `json:"completed_today"`
}

// DepartmentStats summarizes one department's workload.
type DepartmentStats struct {
	Department string  `json:"department"`
	Documents  int     `json:"documents"`
	Completed  int     `json:"completed"`
	Pending    int     `json:"pending"`
	Efficiency float64 `json:"efficiency"`
}

// GetOverviewStats computes the overview counters in a single scan. The
// ai_processed and admin_review counters credit a stage when either the status
// says so or the stage's AI block is present, so documents that moved past a
// stage still count toward it.
func (s *ReviewService) GetOverviewStats(ctx context.Context) (*OverviewStats, error) {
	docs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &OverviewStats{TotalDocuments: len(docs)}
	today := time.Now()
	for i := range docs {
		doc := &docs[i]
		switch doc.Status {
		case model.StatusSubmitted:
			stats.Pending++
		case model.StatusOfficialReviewed:
			stats.OfficialReview++
		case model.StatusApproved:
			stats.Completed++
			if sameDay(doc.UpdatedAt, today) {
				stats.CompletedToday++
			}
		case model.StatusRejected:
			stats.Rejected++
		}
		if doc.Status == model.StatusAiProcessed || doc.HasExtraction() {
			stats.AiProcessed++
		}
		if doc.AdminReviewedAt != nil || doc.HasAssessment() {
			stats.AdminReview++
		}
	}
	return stats, nil
}

// GetDepartmentStats buckets all documents by department. Every known
// department appears in the result even when it has no documents.
func (s *ReviewService) GetDepartmentStats(ctx context.Context) ([]DepartmentStats, error) {
	docs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*DepartmentStats, len(model.Departments))
	stats := make([]DepartmentStats, len(model.Departments))
	for i, dept := range model.Departments {
		stats[i] = DepartmentStats{Department: dept}
		buckets[dept] = &stats[i]
	}

	for i := range docs {
		doc := &docs[i]
		bucket, ok := buckets[doc.DepartmentID]
		if !ok {
			continue
		}
		bucket.Documents++
		switch doc.Status {
		case model.StatusApproved:
			bucket.Completed++
		case model.StatusSubmitted:
			bucket.Pending++
		}
	}

	for i := range stats {
		if stats[i].Documents > 0 {
			stats[i].Efficiency = float64(stats[i].Completed) / float64(stats[i].Documents)
		}
	}
	return stats, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
