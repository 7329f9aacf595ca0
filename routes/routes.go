package routes

import (
	"path/filepath"

	"github.com/gin-gonic/gin"

	"go-ner-proxy/handlers"
	"go-ner-proxy/nlp"
)

func SetupRouter(staticDir string, tagger handlers.Tagger, aggregator *nlp.Aggregator) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), handlers.Recovery(), handlers.RequestID(), handlers.CORS())

	// front-end page
	r.StaticFile("/", filepath.Join(staticDir, "index.html"))
	r.Static("/static", filepath.Join(staticDir, "static"))

	r.GET("/healthz", func(c *gin.Context) {
		handlers.Health(c, tagger)
	})

	// Inject the tagger and aggregator into the handler
	r.POST("/analyze-text", func(c *gin.Context) {
		handlers.AnalyzeText(c, tagger, aggregator)
	})

	return r
}
