package controller

import (
	"errors"
	"log"
	"net/http"

	services "github.com/darksagae/pulse/service"

	"github.com/gin-gonic/gin"
)

// DocumentController manages HTTP requests for the document review pipeline.
type DocumentController struct {
	service *services.ReviewService
}

// NewDocumentController initializes the controller with the service
func NewDocumentController(service *services.ReviewService) *DocumentController {
	return &DocumentController{service}
}

// respondError maps service errors to HTTP statuses: missing documents to 404,
// failed preconditions and validation to 400, everything else to 500.
func respondError(ctx *gin.Context, err error) {
	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}
	var precondition *services.PreconditionError
	if errors.As(err, &precondition) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": precondition.Error()})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal server error",
		"details": err.Error(),
	})
}

type submitDocumentRequest struct {
	CitizenID    string   `json:"citizen_id" binding:"required"`
	DocumentType string   `json:"document_type"`
	Images       []string `json:"images" binding:"required"`
	Description  string   `json:"description"`
}

// SubmitDocument handles a citizen's document submission
func (dc *DocumentController) SubmitDocument(ctx *gin.Context) {
	var req submitDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	doc, err := dc.service.Submit(ctx.Request.Context(), req.CitizenID, req.DocumentType, req.Images, req.Description)
	if err != nil {
		log.Printf("Error submitting document for citizen %s: %v", req.CitizenID, err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":  "Document submitted successfully",
		"document": doc,
	})
}

// GetMyDocuments lists a citizen's documents
func (dc *DocumentController) GetMyDocuments(ctx *gin.Context) {
	citizenID := ctx.Query("citizen_id")
	if citizenID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'citizen_id' is required"})
		return
	}

	docs, err := dc.service.ListCitizenDocuments(ctx.Request.Context(), citizenID)
	if err != nil {
		log.Printf("Error fetching documents for citizen %s: %v", citizenID, err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"documents": docs,
		"total":     len(docs),
	})
}

// GetDocumentByID retrieves a single document
func (dc *DocumentController) GetDocumentByID(ctx *gin.Context) {
	doc, err := dc.service.GetDocument(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"document": doc})
}

// SearchDocuments runs a full-text search over indexed documents
func (dc *DocumentController) SearchDocuments(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	results, err := dc.service.SearchDocuments(query)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"results": results,
		"total":   len(results),
	})
}
