package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document statuses as they appear on the wire.
const (
	StatusSubmitted        = "submitted"
	StatusAiProcessed      = "ai_processed"
	StatusOfficialReviewed = "official_reviewed"
	StatusApproved         = "approved"
	StatusRejected         = "rejected"
	StatusNeedsChanges     = "needs_changes"
)

// Department codes.
const (
	DeptNira        = "nira"
	DeptUrsb        = "ursb"
	DeptImmigration = "immigration"
	DeptFinance     = "finance"
	DeptHealth      = "health"
)

// Known document types. A type outside this set routes to the default department.
const (
	TypeNationalID           = "national_id"
	TypeDriversLicense       = "drivers_license"
	TypePassport             = "passport"
	TypeBirthCertificate     = "birth_certificate"
	TypeMarriageCertificate  = "marriage_certificate"
	TypeBusinessRegistration = "business_registration"
	TypeTaxCertificate       = "tax_certificate"
	TypeHealthCertificate    = "health_certificate"
	TypeVisa                 = "visa"
	TypeOther                = "other"
	TypeUnknown              = "unknown"
)

// Departments lists every known department code, in dashboard order.
var Departments = []string{DeptNira, DeptUrsb, DeptImmigration, DeptFinance, DeptHealth}

// Document represents a citizen-submitted identity document moving through the
// review pipeline, with fields for database and search indexing.
type Document struct {
	// ID is a unique identifier for the document, stored as a UUID in the database.
	// In Elasticsearch, it's indexed as a keyword for exact matching.
	ID string `gorm:"type:uuid;primaryKey" json:"id" elastic:"type:keyword"`

	// CitizenID references the submitting citizen, indexed as a keyword. It is an
	// opaque identity token resolved upstream, not necessarily a UUID.
	CitizenID string `gorm:"not null" json:"citizen_id" elastic:"type:keyword"`

	// DocumentType is one of the known type constants (e.g. "national_id").
	// It may be AI-inferred or citizen-declared and is immutable once set.
	DocumentType string `gorm:"not null" json:"document_type" elastic:"type:keyword"`

	// DepartmentID is the owning department code, derived from DocumentType at
	// creation and changed only through an explicit admin reassignment.
	DepartmentID string `gorm:"not null" json:"department_id" elastic:"type:keyword"`

	// Status is the current pipeline state; mutated only by review transitions.
	Status string `gorm:"not null" json:"status" elastic:"type:keyword"`

	// Images holds ordered opaque image payload references (object keys or data URLs).
	Images datatypes.JSONSlice[string] `json:"images"`

	// Description is optional citizen-provided free text, indexed for search.
	Description string `json:"description" elastic:"type:text,analyzer:standard"`

	// AiExtraction, AiValidation, AiAssessment and AiFraudAnalysis are JSONB blocks
	// attached by the corresponding pipeline stages. Absence means the stage was
	// skipped or failed.
	AiExtraction    datatypes.JSON `json:"ai_extraction,omitempty" elastic:"type:object"`
	AiValidation    datatypes.JSON `json:"ai_validation,omitempty" elastic:"type:object"`
	AiAssessment    datatypes.JSON `json:"ai_assessment,omitempty" elastic:"type:object"`
	AiFraudAnalysis datatypes.JSON `json:"ai_fraud_analysis,omitempty" elastic:"type:object"`

	// OfficialReviewComment and OfficialReviewedAt record the department official's
	// review pass; written at most once per document.
	OfficialReviewComment string     `json:"official_review_comment,omitempty"`
	OfficialReviewedAt    *time.Time `json:"official_reviewed_at,omitempty" elastic:"type:date"`

	// AdminReviewComment and AdminReviewedAt record the final adjudication pass.
	AdminReviewComment string     `json:"admin_review_comment,omitempty"`
	AdminReviewedAt    *time.Time `json:"admin_reviewed_at,omitempty" elastic:"type:date"`

	// AssignedOfficialID is set by an explicit assignment operation.
	AssignedOfficialID string `json:"assigned_official_id,omitempty"`

	// CreatedAt and UpdatedAt track when the document was created and last mutated.
	CreatedAt time.Time `json:"created_at" elastic:"type:date"`
	UpdatedAt time.Time `json:"updated_at" elastic:"type:date"`

	// SearchContent is a computed field for full-text search, combining the type
	// and description. It's not stored in the database but is indexed in Elasticsearch.
	SearchContent string `gorm:"-" json:"-" elastic:"type:text,analyzer:standard"`
}

// BeforeSave is a GORM hook to populate SearchContent before saving.
func (d *Document) BeforeSave(tx *gorm.DB) error {
	d.SearchContent = d.DocumentType + " " + d.Description
	return nil
}

// IsTerminal reports whether the document has reached a final disposition.
func (d *Document) IsTerminal() bool {
	switch d.Status {
	case StatusApproved, StatusRejected, StatusNeedsChanges:
		return true
	}
	return false
}

// HasExtraction reports whether an AI extraction block is attached.
func (d *Document) HasExtraction() bool {
	return len(d.AiExtraction) > 0
}

// HasAssessment reports whether an AI assessment block is attached.
func (d *Document) HasAssessment() bool {
	return len(d.AiAssessment) > 0
}
