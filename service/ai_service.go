package services

import (
	"context"
	"log"
	"os"

	model "github.com/darksagae/pulse/models"
)

// AIExtractor analyzes document images and returns structured extraction
// results. All four pipeline stages (extraction, validation, assessment, fraud
// analysis) go through this single contract; implementations are swappable.
type AIExtractor interface {
	// Name identifies the underlying model, recorded on each AI block.
	Name() string
	// Extract analyzes the images with the given document-type hint. It must
	// honor ctx cancellation; a deadline expiry is a stage failure.
	Extract(ctx context.Context, images []string, documentType string) (*model.ExtractionResult, error)
}

// NewAIExtractorFromEnv picks the extractor implementation: the Gemini-backed
// one when GEMINI_API_KEY is set, otherwise the deterministic mock.
func NewAIExtractorFromEnv() AIExtractor {
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		log.Println("AI extractor initialized with Gemini")
		return NewGeminiExtractor(apiKey)
	}
	log.Println("Warning: GEMINI_API_KEY not set, using mock AI extractor")
	return NewMockExtractor()
}
