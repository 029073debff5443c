package studio

import (
	"embed"
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var TemplatesFS embed.FS

type Server struct {
	app     *fiber.App
	service *Service
	port    int
}

func NewServer(service *Service, port int) *Server {
	engine := html.NewFileSystem(http.FS(TemplatesFS), ".html")

	app := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
	})

	server := &Server{
		app:     app,
		service: service,
		port:    port,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	// UI
	s.app.Get("/", s.handleIndex)

	// API
	api := s.app.Group("/api")
	api.Get("/models", s.handleGetModels)
	api.Get("/models/:model/:schema", s.handleGetTable)
	api.Get("/plan", s.handleGetPlan)
	api.Post("/regenerate", s.handleRegenerate)
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start(openBrowser bool) error {
	port := FindAvailablePort(s.port)
	if port != s.port {
		color.Yellow("⚠️  Port %d is in use, using port %d instead", s.port, port)
		s.port = port
	}

	url := fmt.Sprintf("http://localhost:%d", s.port)
	color.Cyan("🚀 qsynth studio starting on %s", url)

	if openBrowser {
		go OpenBrowser(url)
	}

	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
