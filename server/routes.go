// Package server - Haupt-Router und Server-Setup fuer posids
// Beinhaltet: Server-Struct, Router-Registrierung
//
// Weitere Funktionen sind ausgelagert:
// - routes_middleware.go: Host-Pruefung, Request-ID, Request-Logging
// - routes_serve.go: Serve() und Shutdown
// - routes_positions.go: Handler fuer die Positions-Endpoints
// - errors.go: Fehler-Codes und JSON-Fehlerantworten
package server

import (
	"net"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ollama/posids/envconfig"
	"github.com/ollama/posids/version"
)

var mode string = gin.DebugMode

// Server verwaltet den HTTP-Server und die Limits fuer Positions-Tabellen
type Server struct {
	addr      net.Addr
	maxTokens int
}

func init() {
	switch mode {
	case gin.DebugMode:
	case gin.ReleaseMode:
	case gin.TestMode:
	default:
		mode = gin.DebugMode
	}

	gin.SetMode(mode)
}

// GenerateRoutes erstellt und konfiguriert den HTTP-Router
func (s *Server) GenerateRoutes() http.Handler {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowWildcard = true
	corsConfig.AllowBrowserExtensions = true
	corsConfig.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"User-Agent",
		"Accept",
		"X-Requested-With",
		requestIDHeader,
	}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	corsConfig.AllowOrigins = envconfig.AllowedOrigins()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(),
		cors.New(corsConfig),
		allowedHostsMiddleware(s.addr),
	)

	// General
	r.HEAD("/", func(c *gin.Context) { c.String(http.StatusOK, "posids is running") })
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "posids is running") })
	r.HEAD("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": version.Version}) })
	r.GET("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": version.Version}) })

	// Positions-Tabellen
	r.POST("/api/positions/spatial", s.SpatialHandler)
	r.POST("/api/positions/temporal", s.TemporalHandler)
	r.POST("/api/positions/sequence", s.SequenceHandler)

	return r
}
