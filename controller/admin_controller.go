package controller

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type adminReviewRequest struct {
	AdminID string `json:"admin_id" binding:"required"`
	Action  string `json:"action" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

// AdminReview records the final adjudication on a document
func (dc *DocumentController) AdminReview(ctx *gin.Context) {
	var req adminReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	doc, err := dc.service.AdminReview(ctx.Request.Context(), ctx.Param("id"), req.AdminID, req.Action, req.Comment)
	if err != nil {
		log.Printf("Error adjudicating document %s: %v", ctx.Param("id"), err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Document adjudicated successfully",
		"document": doc,
	})
}

// AnalyzeFraud runs the fraud-analysis stage on a document
func (dc *DocumentController) AnalyzeFraud(ctx *gin.Context) {
	doc, err := dc.service.AnalyzeFraud(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Fraud analysis completed",
		"document": doc,
	})
}

type reassignRequest struct {
	AdminID      string `json:"admin_id" binding:"required"`
	DepartmentID string `json:"department_id" binding:"required"`
}

// ReassignDocument moves a document to another department
func (dc *DocumentController) ReassignDocument(ctx *gin.Context) {
	var req reassignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	doc, err := dc.service.ReassignDepartment(ctx.Request.Context(), ctx.Param("id"), req.AdminID, req.DepartmentID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Document reassigned successfully",
		"document": doc,
	})
}

// GetAdminDocuments lists the admin adjudication queue grouped by department
func (dc *DocumentController) GetAdminDocuments(ctx *gin.Context) {
	queue, groups, err := dc.service.ListAdminQueue(ctx.Request.Context())
	if err != nil {
		log.Printf("Error fetching admin queue: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"documents":     queue,
		"by_department": groups,
		"total":         len(queue),
	})
}

// GetOverviewStats returns the pipeline-wide dashboard counters
func (dc *DocumentController) GetOverviewStats(ctx *gin.Context) {
	stats, err := dc.service.GetOverviewStats(ctx.Request.Context())
	if err != nil {
		log.Printf("Error computing overview stats: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"stats": stats})
}

// GetDepartmentStats returns per-department workload summaries
func (dc *DocumentController) GetDepartmentStats(ctx *gin.Context) {
	stats, err := dc.service.GetDepartmentStats(ctx.Request.Context())
	if err != nil {
		log.Printf("Error computing department stats: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"departments": stats})
}
