// Package server exposes the spectrum viewer over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"spectraviewer/internal/catalog"
	"spectraviewer/internal/logger"
	"spectraviewer/internal/render"
	"spectraviewer/internal/spectrum"
)

// Config carries the server-level settings.
type Config struct {
	Addr                string
	LegendHideThreshold int
	FigureTTL           time.Duration
}

type Server struct {
	addr        string
	legendLimit int
	plotter     *spectrum.Plotter
	catalog     *catalog.Catalog
	figures     *render.Registry
	router      *gin.Engine
}

func New(cfg Config, plotter *spectrum.Plotter, cat *catalog.Catalog) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		addr:        cfg.Addr,
		legendLimit: cfg.LegendHideThreshold,
		plotter:     plotter,
		catalog:     cat,
		figures:     render.NewRegistry(cfg.FigureTTL),
		router:      router,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/", s.handleRedirect)
	s.router.GET("/viewer", s.handleRedirect)
	s.router.GET("/viewer/", s.handleIndex)
	s.router.GET("/viewer/view", s.handleView)
	s.router.GET("/viewer/fig/:id", s.handleFigure)
	s.router.GET("/viewer/download.png/:id", s.handleDownload)
	s.router.GET("/api/files", s.handleFiles)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, "/viewer/")
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Spectrum viewer</title></head>
<body>
<h1>Spectrum viewer</h1>
<p>Plot spectra with <code>/viewer/view?location=filesystem&amp;spectra=a.fits,b.csv</code>.</p>
<p>Available files: <a href="/api/files?location=filesystem">filesystem</a>,
<a href="/api/files?location=jobs">jobs</a>.</p>
</body>
</html>`

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

// handleView decodes the requested batch into a fresh figure, registers it
// and redirects to the figure page. Any engine error discards the figure:
// a failed batch renders nothing.
func (s *Server) handleView(c *gin.Context) {
	location := c.DefaultQuery("location", spectrum.LocationFilesystem)
	spectraArg := c.Query("spectra")
	if spectraArg == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": `missing "spectra" query parameter`})
		return
	}
	var files []string
	for _, entry := range strings.Split(spectraArg, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			files = append(files, entry)
		}
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no spectrum selected"})
		return
	}

	fig := render.NewFigure(s.legendLimit)
	if err := s.plotter.PlotSpectra(fig, files, location); err != nil {
		logger.Warnf("plot request failed: %v", err)
		c.JSON(engineStatus(err), gin.H{"error": err.Error()})
		return
	}
	id := s.figures.Put(fig)
	c.Redirect(http.StatusFound, "/viewer/fig/"+id)
}

func (s *Server) handleFigure(c *gin.Context) {
	fig, ok := s.figures.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "figure not found or expired"})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := fig.Render(c.Writer); err != nil {
		logger.Errorf("figure render failed: %v", err)
	}
}

func (s *Server) handleDownload(c *gin.Context) {
	fig, ok := s.figures.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "figure not found or expired"})
		return
	}
	png, err := render.PNG(c.Request.Context(), fig)
	if err != nil {
		logger.Errorf("png export failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) handleFiles(c *gin.Context) {
	location := c.DefaultQuery("location", spectrum.LocationFilesystem)
	files, err := s.catalog.List(location)
	if err != nil {
		c.JSON(engineStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": location, "files": files})
}

// engineStatus maps engine errors onto HTTP statuses. Everything the user
// can fix by changing the request is a 400-class answer.
func engineStatus(err error) int {
	switch {
	case errors.Is(err, spectrum.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, spectrum.ErrInvalidPath),
		errors.Is(err, spectrum.ErrUnknownLocation),
		errors.Is(err, spectrum.ErrUnknownFormat),
		errors.Is(err, spectrum.ErrInvalidName),
		errors.Is(err, spectrum.ErrEmptyBatch),
		errors.Is(err, spectrum.ErrDecode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		c.Next()
		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}
		logger.Debugf("HTTP %s %s status=%d dur=%s", method, fullPath, c.Writer.Status(), time.Since(start))
	}
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Infof("spectrum viewer listening on %s", s.addr)
	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
