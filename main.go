package main

import (
	"log"
	"net/http"
	"os"

	controller "github.com/darksagae/pulse/controller"
	"github.com/darksagae/pulse/initializers"
	middleware "github.com/darksagae/pulse/middleware"
	services "github.com/darksagae/pulse/service"
	"github.com/darksagae/pulse/store"

	"github.com/gin-gonic/gin"
)

func init() {
	initializers.LoadEnv()
}

func main() {
	// Postgres is preferred; without it the pipeline runs on the in-memory
	// store so local development works with zero infrastructure.
	var docStore store.DocumentStore
	if err := initializers.ConnectDB(); err != nil {
		log.Printf("Database unavailable, falling back to in-memory store: %s", err)
		docStore = store.NewMemoryStore()
	} else {
		if err := initializers.Migrate(); err != nil {
			log.Fatalf("[CRITICAL] Failed to run database migrations: %s", err)
		}
		docStore = store.NewGormStore(initializers.DB)
	}

	extractor := services.NewAIExtractorFromEnv()
	reviewService := services.NewReviewService(docStore, extractor)
	docController := controller.NewDocumentController(reviewService)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.GlobalRateLimiter.Limit())

	// Citizen endpoints
	router.POST("/users/citizen/submit-document",
		middleware.AiStageRateLimiter.Limit(),
		docController.SubmitDocument)
	router.GET("/users/citizen/my-documents", docController.GetMyDocuments)

	// Official endpoints
	router.GET("/users/official/documents/department/:department_id", docController.GetDepartmentDocuments)
	router.GET("/users/official/documents/assigned/:official_id", docController.GetAssignedDocuments)
	router.GET("/users/official/documents/:id", docController.GetDocumentByID)
	router.POST("/users/official/documents/:id/review",
		middleware.AiStageRateLimiter.Limit(),
		docController.OfficialReview)
	router.POST("/users/official/documents/:id/extract",
		middleware.AiStageRateLimiter.Limit(),
		docController.ExtractDocument)
	router.POST("/users/official/documents/:id/assign", docController.AssignOfficial)

	// Admin endpoints
	router.GET("/users/admin/documents", docController.GetAdminDocuments)
	router.POST("/users/admin/documents/:id/review",
		middleware.AiStageRateLimiter.Limit(),
		docController.AdminReview)
	router.POST("/users/admin/documents/:id/analyze-fraud",
		middleware.AiStageRateLimiter.Limit(),
		docController.AnalyzeFraud)
	router.POST("/users/admin/documents/:id/reassign", docController.ReassignDocument)
	router.GET("/admin/stats", docController.GetOverviewStats)
	router.GET("/admin/departments/stats", docController.GetDepartmentStats)

	// Other endpoints
	router.GET("/search", docController.SearchDocuments)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	router.Run(":" + port)
}
