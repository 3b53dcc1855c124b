package models

import "time"

// ExtractionResult is the structured outcome of a single AI extractor call.
// All four pipeline stages (extraction, validation, assessment, fraud analysis)
// share this shape; the stage decides which parts it keeps.
type ExtractionResult struct {
	// DocumentType is the extractor's best guess at the document type, used when
	// the citizen did not declare one.
	DocumentType string `json:"document_type,omitempty"`

	// ExtractedFields maps field names (full_name, document_number, ...) to values.
	ExtractedFields map[string]string `json:"extracted_fields"`

	Confidence   float64 `json:"confidence"`
	QualityScore float64 `json:"quality_score"`
	FraudRisk    float64 `json:"fraud_risk"`

	Recommendations []string `json:"recommendations"`
	Issues          []string `json:"issues"`
}

// AiExtractionBlock is the ai_extraction JSONB payload written by RunExtraction.
type AiExtractionBlock struct {
	ExtractedFields map[string]string `json:"extracted_fields"`
	ConfidenceScore float64           `json:"confidence_score"`
	QualityScore    float64           `json:"quality_score"`
	FraudRisk       float64           `json:"fraud_risk"`
	Recommendations []string          `json:"recommendations"`
	Issues          []string          `json:"issues"`
	ExtractedAt     time.Time         `json:"extracted_at"`
	AiModelUsed     string            `json:"ai_model_used"`
}

// AiValidationBlock is the ai_validation payload attached by an official review.
type AiValidationBlock struct {
	ValidationStatus string            `json:"validation_status"`
	ExtractedFields  map[string]string `json:"extracted_fields"`
	ConfidenceScore  float64           `json:"confidence_score"`
	Corrections      []string          `json:"corrections"`
	ValidatedAt      time.Time         `json:"validated_at"`
	AiModelUsed      string            `json:"ai_model_used"`
}

// AiAssessmentBlock is the ai_assessment payload attached by an admin review.
type AiAssessmentBlock struct {
	AssessmentStatus string    `json:"assessment_status"`
	Summary          string    `json:"summary"`
	ConfidenceScore  float64   `json:"confidence_score"`
	Recommendations  []string  `json:"recommendations"`
	AssessedAt       time.Time `json:"assessed_at"`
	AiModelUsed      string    `json:"ai_model_used"`
}

// AiFraudAnalysisBlock is the ai_fraud_analysis payload. It is a side channel:
// writing it never changes the document status, and each analysis overwrites
// the previous one.
type AiFraudAnalysisBlock struct {
	FraudRiskLevel     string    `json:"fraud_risk_level"`
	FraudRisk          float64   `json:"fraud_risk"`
	FraudIndicators    []string  `json:"fraud_indicators"`
	AuthenticityScore  float64   `json:"authenticity_score"`
	Recommendations    []string  `json:"recommendations"`
	AnalyzedAt         time.Time `json:"analyzed_at"`
	AiModelUsed        string    `json:"ai_model_used"`
}
