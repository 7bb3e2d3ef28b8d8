package app

import (
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/blob"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/cache"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/config"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/handlers"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/repo"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/service"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/upload"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client, blobs blob.Store) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	// The disk backend serves blobs itself; S3 access paths point at the
	// object store directly.
	if disk, ok := blobs.(*blob.DiskStore); ok {
		r.Static(blob.PublicPrefix, disk.Dir())
	}

	api := r.Group("/api")

	cpRepo := repo.NewPGCheckpointRepo(db)
	cpCache := cache.NewCheckpointCache(rdb, cfg.Redis.DefaultTTL.Duration())
	cpSvc := service.NewCheckpointService(cpRepo, blobs, cpCache)
	pipeline := upload.NewPipeline(blobs)
	cpHandler := handlers.NewCheckpointHandler(cpSvc, pipeline)
	registerCheckpointRoutes(api, cpHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Checkpoint Master API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerCheckpointRoutes(api *gin.RouterGroup, h *handlers.CheckpointHandler) {
	api.GET("/checkpoints", h.List)
	api.POST("/checkpoints", h.Create)
	api.POST("/checkpoints/upload", h.UploadOne)
	api.POST("/checkpoints/delete-file", h.RemoveFile)
	api.PUT("/checkpoints/:id", h.Update)
	api.DELETE("/checkpoints/:id", h.Delete)
}
