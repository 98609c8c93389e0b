package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/whoamihappyhacking/chatlens/internal/analysis"
	"github.com/whoamihappyhacking/chatlens/internal/errors"
)

func (s *Service) initRouter() {
	s.initBaseRouter()
	s.initAPIRouter()
	s.initMCPRouter()
}

func (s *Service) initBaseRouter() {
	s.router.GET("/health", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}

func (s *Service) initAPIRouter() {
	api := s.router.Group("/api/v1", s.checkReadyMiddleware())
	{
		api.GET("/report", s.handleReport)
		api.GET("/report/ranking/:kind", s.handleRanking)
		api.GET("/report/contact/:id/segments", s.handleSegments)
		api.POST("/report/refresh", s.handleRefresh)
	}
}

func (s *Service) initMCPRouter() {
	s.router.Any("/mcp", func(c *gin.Context) { s.mcpStreamableServer.ServeHTTP(c.Writer, c.Request) })
	s.router.Any("/sse", func(c *gin.Context) { s.mcpSSEServer.ServeHTTP(c.Writer, c.Request) })
	s.router.Any("/message", func(c *gin.Context) { s.mcpSSEServer.ServeHTTP(c.Writer, c.Request) })
}

type scopeQuery struct {
	Year string `form:"year"`
}

func bindScope(c *gin.Context) (analysis.Scope, error) {
	var q scopeQuery
	if err := c.BindQuery(&q); err != nil {
		return analysis.Scope{}, errors.InvalidArg("year")
	}
	return analysis.ParseScope(q.Year)
}

// etag 数据指纹 + 范围；指纹不可用时不输出
func (s *Service) etag(scope analysis.Scope) string {
	fp, err := s.reporter.Fingerprint()
	if err != nil || fp == "" {
		return ""
	}
	return `W/"` + fp + "-" + scope.Key() + `"`
}

func notModified(c *gin.Context, tag string) bool {
	if tag == "" {
		return false
	}
	c.Header("ETag", tag)
	for _, v := range strings.Split(c.GetHeader("If-None-Match"), ",") {
		if strings.TrimSpace(v) == tag {
			c.Status(http.StatusNotModified)
			return true
		}
	}
	return false
}

// GET /api/v1/report?year=2024
func (s *Service) handleReport(c *gin.Context) {
	scope, err := bindScope(c)
	if err != nil {
		errors.Err(c, err)
		return
	}
	if notModified(c, s.etag(scope)) {
		return
	}

	bundle, err := s.reporter.Report(c.Request.Context(), scope, false)
	if err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// GET /api/v1/report/ranking/:kind?year=2024&limit=5
func (s *Service) handleRanking(c *gin.Context) {
	q := struct {
		Year  string `form:"year"`
		Limit int    `form:"limit"`
	}{}
	if err := c.BindQuery(&q); err != nil {
		errors.Err(c, errors.InvalidArg("limit"))
		return
	}
	scope, err := analysis.ParseScope(q.Year)
	if err != nil {
		errors.Err(c, err)
		return
	}
	kind := analysis.RankingKind(strings.ToLower(c.Param("kind")))

	bundle, err := s.reporter.Report(c.Request.Context(), scope, false)
	if err != nil {
		errors.Err(c, err)
		return
	}
	ranking, ok := bundle.Ranking(kind)
	if !ok {
		errors.Err(c, errors.ErrUnknownRanking)
		return
	}
	c.JSON(http.StatusOK, ranking.Truncate(q.Limit))
}

// GET /api/v1/report/contact/:id/segments?year=2024
func (s *Service) handleSegments(c *gin.Context) {
	scope, err := bindScope(c)
	if err != nil {
		errors.Err(c, err)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		errors.Err(c, errors.InvalidArg("id"))
		return
	}

	seg, err := s.reporter.ContactSegments(c.Request.Context(), scope, id)
	if err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, seg)
}

// POST /api/v1/report/refresh?year=2024
func (s *Service) handleRefresh(c *gin.Context) {
	scope, err := bindScope(c)
	if err != nil {
		errors.Err(c, err)
		return
	}

	bundle, err := s.reporter.Report(c.Request.Context(), scope, true)
	if err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"scope":        scope.Key(),
		"run_id":       bundle.RunID,
		"generated_at": bundle.GeneratedAt,
		"skipped":      len(bundle.Skipped),
	})
}
