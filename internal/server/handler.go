package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/naka-gawa/github-insights/internal/domain"
	"github.com/naka-gawa/github-insights/internal/render"
	"github.com/naka-gawa/github-insights/internal/usecase"
	"github.com/naka-gawa/github-insights/internal/view"
)

type handleFunc func(*gin.Context) (interface{}, error)

// LinkRequest carries a profile URL or a bare username.
type LinkRequest struct {
	URL string `json:"url" binding:"required"`
}

// YearRequest selects an account and a year.
type YearRequest struct {
	Username string `json:"username" binding:"required"`
	Year     int    `json:"year" binding:"required"`
}

type StatsResponse struct {
	Stats   *domain.RepoMetrics `json:"stats"`
	Totals  domain.Totals       `json:"totals"`
	Summary usecase.Summary     `json:"summary"`
}

type FrequencyResponse struct {
	Freq *domain.RepoFrequency `json:"freq"`
}

type ChartsResponse struct {
	Username string                 `json:"username"`
	Year     int                    `json:"year"`
	Totals   domain.Totals          `json:"totals"`
	Charts   []render.ChartJSConfig `json:"charts"`
}

// Handler serves the insights API.
type Handler struct {
	resolver view.ProfileResolver
	source   view.StatsSource
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(resolver view.ProfileResolver, source view.StatsSource, logger *zap.Logger) *Handler {
	return &Handler{resolver: resolver, source: source, logger: logger, now: time.Now}
}

// InitRouters registers every API route on e.
func InitRouters(e *gin.Engine, h *Handler) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.POST("/link", h.Link)
	g.POST("/stats", h.Stats)
	g.POST("/frequency", h.Frequency)
	g.POST("/charts", h.Charts)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Link(c *gin.Context) {
	handle(c, h.link)
}

func (h *Handler) Stats(c *gin.Context) {
	handle(c, h.stats)
}

func (h *Handler) Frequency(c *gin.Context) {
	handle(c, h.frequency)
}

func (h *Handler) Charts(c *gin.Context) {
	handle(c, h.charts)
}

func (h *Handler) link(c *gin.Context) (interface{}, error) {
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, NewBadRequest("invalid request body: " + err.Error())
	}
	return h.resolver.Resolve(c.Request.Context(), req.URL)
}

func (h *Handler) stats(c *gin.Context) (interface{}, error) {
	req, profile, err := h.resolve(c)
	if err != nil {
		return nil, err
	}
	metrics, err := h.source.CollectMetrics(c.Request.Context(), profile.Username, profile.Repos, req.Year)
	if err != nil {
		return nil, err
	}
	summary := usecase.Summarize(metrics)
	return StatsResponse{Stats: metrics, Totals: summary.Totals, Summary: summary}, nil
}

func (h *Handler) frequency(c *gin.Context) (interface{}, error) {
	req, profile, err := h.resolve(c)
	if err != nil {
		return nil, err
	}
	freq, err := h.source.CollectFrequency(c.Request.Context(), profile.Username, profile.Repos, req.Year)
	if err != nil {
		return nil, err
	}
	return FrequencyResponse{Freq: freq}, nil
}

// charts loads metrics and frequency together and returns the six chart configurations.
func (h *Handler) charts(c *gin.Context) (interface{}, error) {
	var req YearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, NewBadRequest("invalid request body: " + err.Error())
	}

	renderer := render.NewChartJS()
	o := view.New(h.resolver, h.source, renderer, h.logger)
	switch state := o.Submit(c.Request.Context(), req.Username, req.Year).(type) {
	case view.Loaded:
		return ChartsResponse{
			Username: state.Profile.Username,
			Year:     state.Year,
			Totals:   state.Summary.Totals,
			Charts:   renderer.Configs(),
		}, nil
	case view.Failed:
		return nil, state.Reason
	default:
		return nil, fmt.Errorf("unexpected view state %T", state)
	}
}

// resolve binds a YearRequest, validates the year and lists the account's repositories.
func (h *Handler) resolve(c *gin.Context) (YearRequest, usecase.Profile, error) {
	var req YearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, usecase.Profile{}, NewBadRequest("invalid request body: " + err.Error())
	}
	if err := usecase.ValidateYear(req.Year, h.now()); err != nil {
		return req, usecase.Profile{}, err
	}
	profile, err := h.resolver.Resolve(c.Request.Context(), req.Username)
	return req, profile, err
}

func handle(c *gin.Context, fn handleFunc) {
	response, err := fn(c)
	if err != nil {
		AbortWithApiError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
