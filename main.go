package main

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"

	"github.com/abhayas/halfdigit-web/internal/api"
	"github.com/abhayas/halfdigit-web/internal/config"
	"github.com/abhayas/halfdigit-web/internal/telemetry"
)

//go:embed templates/*.html
var templatesFS embed.FS

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	gin.SetMode(cfg.Server.Mode)

	client := api.NewClient(cfg.API.BaseURL, &http.Client{})

	var sink telemetry.Sink = telemetry.Nop{}
	if cfg.Telemetry.Enabled {
		sink = telemetry.NewAPISink(client)
	}

	r, err := newRouter(newSite(client, sink, cfg.Server))
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	log.Printf("halfdigit-web listening on :%s (API %s)", cfg.Server.Port, client.BaseURL())
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newRouter(s *site) (*gin.Engine, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := gin.Default()
	r.SetHTMLTemplate(tmpl)
	r.Use(visitTrackingMiddleware(s.sink))

	r.Static("/static", "./static")

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"title":    "Halfdigit | AI & ML Portfolio",
			"path":     "/",
			"intro":    Intro,
			"modules":  Modules,
			"stack":    Stack,
			"external": Links,
		})
	})

	r.GET("/contact", s.showContact)
	r.POST("/contact", s.submitContact)

	r.GET("/titanic", s.showTitanic)
	r.POST("/titanic", s.submitTitanic)

	r.GET("/speech-to-text", s.showSpeech)
	r.POST("/speech-to-text/select", s.selectAudio)
	r.POST("/speech-to-text", s.submitSpeech)

	return r, nil
}
