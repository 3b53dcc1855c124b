package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	model "github.com/darksagae/pulse/models"
	"github.com/darksagae/pulse/store"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// extractorTimeout bounds every AI collaborator call. An expired deadline is a
// stage failure, never an indefinitely blocked human operation.
const extractorTimeout = 45 * time.Second

// ReviewService is the document review state machine. It owns all status
// transitions, attaches AI blocks to records, and degrades gracefully when the
// AI collaborator is unavailable.
type ReviewService struct {
	store     store.DocumentStore
	extractor AIExtractor
	s3Client  *s3.S3
	esClient  *elasticsearch.Client
	bucket    string
}

// NewReviewService wires the state machine to its collaborators. The S3 and
// Elasticsearch clients are optional: missing config logs a warning and the
// corresponding side effects are skipped, because no human operation may fail
// for lack of a collaborator.
func NewReviewService(docStore store.DocumentStore, extractor AIExtractor) *ReviewService {
	s := &ReviewService{store: docStore, extractor: extractor}

	region := os.Getenv("SUPABASE_REGION")
	endpoint := os.Getenv("SUPABASE_S3_ENDPOINT")
	accessKey := os.Getenv("SUPABASE_ACCESS_KEY")
	secretKey := os.Getenv("SUPABASE_SECRET_KEY")
	s.bucket = os.Getenv("SUPABASE_BUCKET")

	if region != "" && endpoint != "" && accessKey != "" && secretKey != "" && s.bucket != "" {
		sess, err := session.NewSession(&aws.Config{
			Region:           aws.String(region),
			Endpoint:         aws.String(endpoint),
			Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
			S3ForcePathStyle: aws.Bool(true),
		})
		if err != nil {
			log.Printf("Warning: Failed to create AWS session: %v", err)
		} else {
			s.s3Client = s3.New(sess)
		}
	} else {
		log.Println("S3 configuration incomplete, image payloads will be stored inline")
	}

	if esURL := os.Getenv("ELASTICSEARCH_URL"); esURL != "" {
		esClient, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{esURL}})
		if err != nil {
			log.Printf("Warning: Failed to create Elasticsearch client: %v", err)
		} else {
			s.esClient = esClient
		}
	}

	return s
}

// Submit creates a document record for a citizen. The document type is inferred
// through the AI extractor when the citizen did not declare one; extractor
// failure falls back to the unknown type and never blocks the submission.
func (s *ReviewService) Submit(ctx context.Context, citizenID, documentType string, images []string, description string) (*model.Document, error) {
	if strings.TrimSpace(citizenID) == "" {
		return nil, &PreconditionError{Rule: "citizen_id", Message: "citizen id is required"}
	}
	if len(images) == 0 {
		return nil, &PreconditionError{Rule: "images", Message: "at least one image is required"}
	}

	docType := strings.TrimSpace(documentType)
	if docType == "" {
		result, err := s.runExtractor(ctx, images, model.TypeUnknown)
		switch {
		case err != nil:
			log.Printf("[Submit] AI type inference failed, using manual type: %v", err)
			docType = model.TypeUnknown
		case result.DocumentType != "":
			docType = result.DocumentType
		default:
			docType = model.TypeUnknown
		}
	}

	department := DetermineDepartment(docType)
	id := uuid.NewString()
	now := time.Now()

	doc := &model.Document{
		ID:           id,
		CitizenID:    citizenID,
		DocumentType: docType,
		DepartmentID: department,
		Status:       model.StatusSubmitted,
		Images:       s.storeImages(ctx, id, images),
		Description:  description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, doc); err != nil {
		log.Printf("[Submit] Error saving document: %v", err)
		return nil, err
	}
	s.indexDocument(doc)

	log.Printf("Document %s submitted by citizen %s and routed to %s", id, citizenID, department)
	return doc, nil
}

// RunExtraction invokes the AI extractor for a document and, on success, writes
// the ai_extraction block and advances the status to ai_processed. Extraction is
// retryable: a failure leaves the document unchanged and is reported to the
// caller, and a repeat call simply overwrites the block.
func (s *ReviewService) RunExtraction(ctx context.Context, documentID, documentType string) (*model.Document, error) {
	doc, err := s.getDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.IsTerminal() {
		return nil, &PreconditionError{Rule: "status", Message: fmt.Sprintf("document in terminal state %q cannot be extracted", doc.Status)}
	}

	hint := documentType
	if hint == "" {
		hint = doc.DocumentType
	}
	result, err := s.runExtractor(ctx, doc.Images, hint)
	if err != nil {
		log.Printf("[RunExtraction] AI extraction failed for document %s: %v", documentID, err)
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	block := marshalBlock(model.AiExtractionBlock{
		ExtractedFields: result.ExtractedFields,
		ConfidenceScore: result.Confidence,
		QualityScore:    result.QualityScore,
		FraudRisk:       result.FraudRisk,
		Recommendations: result.Recommendations,
		Issues:          result.Issues,
		ExtractedAt:     time.Now(),
		AiModelUsed:     s.extractor.Name(),
	})

	updated, err := s.update(ctx, documentID, func(d *model.Document) error {
		if d.IsTerminal() {
			return &PreconditionError{Rule: "status", Message: fmt.Sprintf("document in terminal state %q cannot be extracted", d.Status)}
		}
		d.AiExtraction = block
		d.Status = model.StatusAiProcessed
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.indexDocument(updated)

	log.Printf("Document %s extraction completed, status advanced to %s", documentID, model.StatusAiProcessed)
	return updated, nil
}

// OfficialReview records a department official's review and moves the document
// to official_reviewed. A second extractor pass attaches an ai_validation block;
// its failure is non-fatal and the block is simply omitted.
func (s *ReviewService) OfficialReview(ctx context.Context, documentID, officialID, comment string) (*model.Document, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, &PreconditionError{Rule: "comment", Message: "review comment is required"}
	}

	doc, err := s.getDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	var validation datatypes.JSON
	if result, exErr := s.runExtractor(ctx, doc.Images, doc.DocumentType); exErr != nil {
		log.Printf("[OfficialReview] AI validation failed for document %s, continuing without it: %v", documentID, exErr)
	} else {
		validation = marshalBlock(model.AiValidationBlock{
			ValidationStatus: "validated",
			ExtractedFields:  result.ExtractedFields,
			ConfidenceScore:  result.Confidence,
			Corrections:      result.Issues,
			ValidatedAt:      time.Now(),
			AiModelUsed:      s.extractor.Name(),
		})
	}

	updated, err := s.update(ctx, documentID, func(d *model.Document) error {
		if d.Status != model.StatusSubmitted && d.Status != model.StatusAiProcessed {
			return &PreconditionError{Rule: "status", Message: fmt.Sprintf("document in state %q cannot be reviewed by an official", d.Status)}
		}
		now := time.Now()
		d.Status = model.StatusOfficialReviewed
		d.OfficialReviewComment = comment
		d.OfficialReviewedAt = &now
		if validation != nil {
			d.AiValidation = validation
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Document %s reviewed by official %s and submitted to admin", documentID, officialID)
	return updated, nil
}

// adminActions maps each admin decision to its terminal status.
var adminActions = map[string]string{
	"approve":         model.StatusApproved,
	"reject":          model.StatusRejected,
	"request_changes": model.StatusNeedsChanges,
}

// AdminReview records the final adjudication. The action maps deterministically
// to a terminal status; an ai_assessment block is attached when the extractor
// is available.
func (s *ReviewService) AdminReview(ctx context.Context, documentID, adminID, action, comment string) (*model.Document, error) {
	target, ok := adminActions[action]
	if !ok {
		return nil, &PreconditionError{Rule: "action", Message: fmt.Sprintf("invalid action %q: must be approve, reject, or request_changes", action)}
	}
	if strings.TrimSpace(comment) == "" {
		return nil, &PreconditionError{Rule: "comment", Message: "admin comment is required"}
	}

	doc, err := s.getDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	var assessment datatypes.JSON
	if result, exErr := s.runExtractor(ctx, doc.Images, doc.DocumentType); exErr != nil {
		log.Printf("[AdminReview] AI assessment failed for document %s, continuing without it: %v", documentID, exErr)
	} else {
		assessment = marshalBlock(model.AiAssessmentBlock{
			AssessmentStatus: "assessed",
			Summary:          fmt.Sprintf("Quality %.2f, confidence %.2f, fraud risk %.2f", result.QualityScore, result.Confidence, result.FraudRisk),
			ConfidenceScore:  result.Confidence,
			Recommendations:  result.Recommendations,
			AssessedAt:       time.Now(),
			AiModelUsed:      s.extractor.Name(),
		})
	}

	updated, err := s.update(ctx, documentID, func(d *model.Document) error {
		if d.Status != model.StatusOfficialReviewed {
			return &PreconditionError{Rule: "status", Message: fmt.Sprintf("document in state %q is not awaiting admin review", d.Status)}
		}
		now := time.Now()
		d.Status = target
		d.AdminReviewComment = comment
		d.AdminReviewedAt = &now
		if assessment != nil {
			d.AiAssessment = assessment
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Document %s %s by admin %s", documentID, target, adminID)
	return updated, nil
}

// AnalyzeFraud runs the fraud-analysis stage and writes the ai_fraud_analysis
// block. It is a side channel: the status never changes, the operation is valid
// in any state, and each run overwrites the previous block. Extractor failure
// skips the stage without failing the operation.
func (s *ReviewService) AnalyzeFraud(ctx context.Context, documentID string) (*model.Document, error) {
	doc, err := s.getDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	result, exErr := s.runExtractor(ctx, doc.Images, doc.DocumentType)
	if exErr != nil {
		log.Printf("[AnalyzeFraud] AI fraud analysis failed for document %s, stage skipped: %v", documentID, exErr)
		return doc, nil
	}

	block := marshalBlock(model.AiFraudAnalysisBlock{
		FraudRiskLevel:    fraudRiskLevel(result.FraudRisk),
		FraudRisk:         result.FraudRisk,
		FraudIndicators:   result.Issues,
		AuthenticityScore: 1 - result.FraudRisk,
		Recommendations:   result.Recommendations,
		AnalyzedAt:        time.Now(),
		AiModelUsed:       s.extractor.Name(),
	})

	updated, err := s.update(ctx, documentID, func(d *model.Document) error {
		d.AiFraudAnalysis = block
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Fraud analysis completed for document %s", documentID)
	return updated, nil
}

// AssignOfficial sets the assigned official without changing the status. It is
// valid at any point before a terminal disposition.
func (s *ReviewService) AssignOfficial(ctx context.Context, documentID, officialID string) (*model.Document, error) {
	if strings.TrimSpace(officialID) == "" {
		return nil, &PreconditionError{Rule: "official_id", Message: "official id is required"}
	}
	updated, err := s.update(ctx, documentID, func(d *model.Document) error {
		if d.IsTerminal() {
			return &PreconditionError{Rule: "status", Message: fmt.Sprintf("document in terminal state %q cannot be assigned", d.Status)}
		}
		d.AssignedOfficialID = officialID
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Document %s assigned to official %s", documentID, officialID)
	return updated, nil
}

// ReassignDepartment moves a document to another department. This is the only
// way department_id changes after creation.
func (s *ReviewService) ReassignDepartment(ctx context.Context, documentID, adminID, departmentID string) (*model.Document, error) {
	if !IsKnownDepartment(departmentID) {
		return nil, &PreconditionError{Rule: "department", Message: fmt.Sprintf("unknown department %q", departmentID)}
	}
	updated, err := s.update(ctx, documentID, func(d *model.Document) error {
		if d.IsTerminal() {
			return &PreconditionError{Rule: "status", Message: fmt.Sprintf("document in terminal state %q cannot be reassigned", d.Status)}
		}
		d.DepartmentID = departmentID
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Document %s reassigned to department %s by admin %s", documentID, departmentID, adminID)
	return updated, nil
}

// GetDocument returns a single document by id.
func (s *ReviewService) GetDocument(ctx context.Context, documentID string) (*model.Document, error) {
	return s.getDocument(ctx, documentID)
}

// ListCitizenDocuments lists a citizen's documents; "all" lists everything.
func (s *ReviewService) ListCitizenDocuments(ctx context.Context, citizenID string) ([]model.Document, error) {
	return s.store.ListByCitizen(ctx, citizenID)
}

// ListDepartmentDocuments lists the documents owned by a department.
func (s *ReviewService) ListDepartmentDocuments(ctx context.Context, departmentID string) ([]model.Document, error) {
	return s.store.ListByDepartment(ctx, departmentID)
}

// ListAssignedDocuments lists the documents assigned to an official.
func (s *ReviewService) ListAssignedDocuments(ctx context.Context, officialID string) ([]model.Document, error) {
	docs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	assigned := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.AssignedOfficialID == officialID {
			assigned = append(assigned, doc)
		}
	}
	return assigned, nil
}

// ListAdminQueue returns the documents awaiting adjudication, grouped by
// department for the admin dashboard.
func (s *ReviewService) ListAdminQueue(ctx context.Context) ([]model.Document, map[string][]model.Document, error) {
	docs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	queue := make([]model.Document, 0, len(docs))
	groups := make(map[string][]model.Document)
	for _, doc := range docs {
		if doc.Status != model.StatusOfficialReviewed {
			continue
		}
		queue = append(queue, doc)
		groups[doc.DepartmentID] = append(groups[doc.DepartmentID], doc)
	}
	return queue, groups, nil
}

// getDocument fetches a document and maps a store miss to a NotFoundError.
func (s *ReviewService) getDocument(ctx context.Context, documentID string) (*model.Document, error) {
	doc, err := s.store.GetByID(ctx, documentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{Resource: "document", ID: documentID}
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// update wraps store.Update and maps a store miss to a NotFoundError.
func (s *ReviewService) update(ctx context.Context, documentID string, mutate func(d *model.Document) error) (*model.Document, error) {
	updated, err := s.store.Update(ctx, documentID, mutate)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{Resource: "document", ID: documentID}
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// runExtractor loads image payloads and calls the extractor under the stage
// timeout.
func (s *ReviewService) runExtractor(ctx context.Context, images []string, documentType string) (*model.ExtractionResult, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("ai extractor is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, extractorTimeout)
	defer cancel()
	return s.extractor.Extract(ctx, s.loadImagePayloads(ctx, images), documentType)
}

// fraudRiskLevel buckets a numeric fraud risk score.
func fraudRiskLevel(risk float64) string {
	switch {
	case risk > 0.7:
		return "high"
	case risk > 0.4:
		return "medium"
	default:
		return "low"
	}
}

// marshalBlock serializes an AI block for the JSONB column.
func marshalBlock(block interface{}) datatypes.JSON {
	raw, err := json.Marshal(block)
	if err != nil {
		log.Printf("[marshalBlock] Error marshaling AI block: %v", err)
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(raw)
}
