// Package devapi is an in-memory stand-in for the remote course service. It
// serves the same /api surface the gateway talks to so the client can be
// exercised end to end without the real backend.
package devapi

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"course-studio/internal/domain"
	"course-studio/internal/logger"
)

type Options struct {
	NodeID    int64
	ExportDir string
	Log       *logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	mu      sync.Mutex
	courses []domain.Course

	ids       *snowflake.Node
	exportDir string
	log       *logger.Logger
	now       func() time.Time
}

func New(opts Options) (*Server, error) {
	node, err := snowflake.NewNode(opts.NodeID)
	if err != nil {
		return nil, fmt.Errorf("devapi: snowflake node: %w", err)
	}
	if opts.ExportDir == "" {
		return nil, fmt.Errorf("devapi: export dir is required")
	}
	if err := os.MkdirAll(opts.ExportDir, 0o755); err != nil {
		return nil, fmt.Errorf("devapi: create export dir: %w", err)
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		courses:   []domain.Course{},
		ids:       node,
		exportDir: opts.ExportDir,
		log:       opts.Log.With("component", "devapi"),
		now:       opts.Now,
	}, nil
}

// Router builds the gin engine. Callers pick the gin mode.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(recovery(s.log), requestLogger(s.log))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"name": "course-studio devapi", "status": "online"})
	})

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	courses := api.Group("/courses")
	{
		courses.GET("", s.listCourses)
		courses.POST("", s.createCourse)
		courses.GET("/:id", s.getCourse)
		courses.PUT("/:id", s.updateCourse)
		courses.DELETE("/:id", s.deleteCourse)
		courses.POST("/:id/duplicate", s.duplicateCourse)
	}

	ai := api.Group("/ai")
	{
		ai.POST("/generate", s.generate)
		ai.POST("/chat", s.chat)
		ai.GET("/status", s.aiStatus)
	}

	exp := api.Group("/export")
	{
		exp.POST("", s.export)
		exp.GET("/download/:file", s.download)
		exp.GET("/formats", s.formats)
	}

	lex := api.Group("/lexicon")
	{
		lex.GET("", s.lexicon)
		lex.GET("/verbs/:level", s.verbs)
	}

	return router
}

func notFound(c *gin.Context, what string) {
	c.JSON(404, gin.H{"detail": what + " not found"})
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(400, gin.H{"detail": detail})
}
