package controller

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type officialReviewRequest struct {
	OfficialID string `json:"official_id" binding:"required"`
	Comment    string `json:"comment" binding:"required"`
}

// OfficialReview records an official's review and forwards the document to the
// admin queue
func (dc *DocumentController) OfficialReview(ctx *gin.Context) {
	var req officialReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	doc, err := dc.service.OfficialReview(ctx.Request.Context(), ctx.Param("id"), req.OfficialID, req.Comment)
	if err != nil {
		log.Printf("Error reviewing document %s: %v", ctx.Param("id"), err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Document reviewed successfully",
		"document": doc,
	})
}

type extractDocumentRequest struct {
	DocumentType string `json:"document_type"`
}

// ExtractDocument triggers the AI extraction stage for a document
func (dc *DocumentController) ExtractDocument(ctx *gin.Context) {
	var req extractDocumentRequest
	// The body is optional; an empty body means extract with the stored type.
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	doc, err := dc.service.RunExtraction(ctx.Request.Context(), ctx.Param("id"), req.DocumentType)
	if err != nil {
		log.Printf("Error extracting document %s: %v", ctx.Param("id"), err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Document extracted successfully",
		"document": doc,
	})
}

type assignOfficialRequest struct {
	OfficialID string `json:"official_id" binding:"required"`
}

// AssignOfficial assigns a document to a department official
func (dc *DocumentController) AssignOfficial(ctx *gin.Context) {
	var req assignOfficialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	doc, err := dc.service.AssignOfficial(ctx.Request.Context(), ctx.Param("id"), req.OfficialID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Document assigned successfully",
		"document": doc,
	})
}

// GetDepartmentDocuments lists the documents owned by a department
func (dc *DocumentController) GetDepartmentDocuments(ctx *gin.Context) {
	departmentID := ctx.Param("department_id")
	docs, err := dc.service.ListDepartmentDocuments(ctx.Request.Context(), departmentID)
	if err != nil {
		log.Printf("Error fetching documents for department %s: %v", departmentID, err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"department": departmentID,
		"documents":  docs,
		"total":      len(docs),
	})
}

// GetAssignedDocuments lists the documents assigned to an official
func (dc *DocumentController) GetAssignedDocuments(ctx *gin.Context) {
	officialID := ctx.Param("official_id")
	docs, err := dc.service.ListAssignedDocuments(ctx.Request.Context(), officialID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"official":  officialID,
		"documents": docs,
		"total":     len(docs),
	})
}
