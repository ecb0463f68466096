package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"go-contract-harvester/internal/config"
	"go-contract-harvester/internal/database"
	"go-contract-harvester/internal/models"
	"go-contract-harvester/internal/report"

	"github.com/gin-gonic/gin"
)

// runLister is the slice of the repository the status API reads.
type runLister interface {
	RecentRuns(ctx context.Context, limit int) ([]models.Run, error)
}

func newRouter(reportsDir string, runs runLister) *gin.Engine {
	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Contract harvester API is running!",
			"status":  "healthy",
		})
	})

	r.GET("/reports/latest", func(c *gin.Context) {
		rep, path, err := report.Latest(reportsDir)
		if errors.Is(err, report.ErrNoReports) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no reports yet"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("X-Report-File", filepath.Base(path))
		c.JSON(http.StatusOK, rep)
	})

	r.GET("/reports/latest/summary", func(c *gin.Context) {
		rep, _, err := report.Latest(reportsDir)
		if errors.Is(err, report.ErrNoReports) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no reports yet"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"kind":         rep.Kind,
			"generated_at": rep.GeneratedAt,
			"adapters":     rep.Adapters,
			"summary":      rep.Summary,
		})
	})

	r.GET("/runs", func(c *gin.Context) {
		if runs == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not configured"})
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit < 1 || limit > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		list, err := runs.RecentRuns(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"runs": list})
	})
	return r
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	cfgPath := os.Getenv("HARVESTER_CONFIG")
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	var runs runLister
	if cfg.DatabaseURL != "" {
		repo, err := database.ConnectDB(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Printf("⚠️ Run history disabled: %v", err)
		} else {
			defer repo.Close()
			runs = repo
		}
	}

	r := newRouter(report.NewFileSink(cfg.OutputDir).Dir(), runs)
	log.Printf("Server listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
