package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tutorMarket/business/recommendation"
	"tutorMarket/domain"
	"tutorMarket/internal/middleware"
	"tutorMarket/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type (
	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
		timeout  time.Duration
	}

	RecommendationService interface {
		GenerateRecommendations(ctx context.Context, studentID uint, topic string, opts recommendation.Options) []domain.ScoredCandidate
		TrackInteraction(ctx context.Context, in domain.Interaction) (domain.Interaction, error)
		Features(ctx context.Context, userID uint) (domain.FeatureRecord, error)
		EnsureStudent(ctx context.Context, userID uint) error
		Metrics(ctx context.Context, studentID uint) (domain.RecommendationMetrics, error)
		TrackSearch(ctx context.Context, userID uint, query string, filters map[string]any) ([]string, error)
	}

	// Optional numeric filters are plain values; presence is checked on the
	// raw query string.
	RecommendQuery struct {
		Topic              string  `query:"topic" validate:"max=100"`
		Algorithm          string  `query:"algorithm" validate:"max=32"`
		Limit              int     `query:"limit" validate:"omitempty,min=1,max=50"`
		PriceRange         string  `query:"price_range" validate:"max=16"`
		MinRating          float64 `query:"min_rating" validate:"min=0,max=5"`
		MinExperience      int     `query:"min_experience" validate:"min=0,max=80"`
		Language           string  `query:"language" validate:"max=32"`
		IncludeExplanation bool    `query:"include_explanation"`
	}

	RecommendResponse struct {
		Recommendations []domain.ScoredCandidate `json:"recommendations"`
		Count           int                      `json:"count"`
		Algorithm       string                   `json:"algorithm"`
		Topic           string                   `json:"topic,omitempty"`
		TraceID         string                   `json:"trace_id"`
	}

	TrackRequest struct {
		EducatorID      uint           `json:"educator_id"`
		InteractionType string         `json:"interaction_type" validate:"required,oneof=view click bookmark share message book cancel"`
		SearchQuery     string         `json:"search_query" validate:"max=200"`
		Source          string         `json:"source" validate:"max=50"`
		TimeSpent       float64        `json:"time_spent" validate:"gte=0"`
		IsRecommended   bool           `json:"is_recommendation"`
		AlgorithmUsed   string         `json:"algorithm_used" validate:"max=32"`
		Filters         map[string]any `json:"filters"`
	}

	TrackSearchRequest struct {
		SearchQuery string         `json:"search_query" validate:"required,max=200"`
		Filters     map[string]any `json:"filters"`
	}

	TrackSearchResponse struct {
		Keywords []string `json:"keywords"`
	}
)

func NewRecommendationHandler(svc RecommendationService, timeout time.Duration) *RecommendationHandler {
	return &RecommendationHandler{
		validate: validator.New(),
		service:  svc,
		timeout:  timeout,
	}
}

// GET /api/v1/recommendations/educators?topic=calculus&algorithm=hybrid&limit=10
func (h *RecommendationHandler) Educators(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	alg, ok := recommendation.ParseAlgorithm(q.Algorithm)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "unknown algorithm " + strconv.Quote(q.Algorithm)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.service.EnsureStudent(ctx, userID); err != nil {
		return h.studentError(c, err)
	}

	opts := h.options(c, q, alg)
	recs := h.service.GenerateRecommendations(ctx, userID, q.Topic, opts)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(RecommendResponse{
		Recommendations: recs,
		Count:           len(recs),
		Algorithm:       string(opts.Algorithm),
		Topic:           q.Topic,
		TraceID:         middleware.TraceID(c),
	}))
}

func (h *RecommendationHandler) options(c echo.Context, q RecommendQuery, alg recommendation.Algorithm) recommendation.Options {
	opts := recommendation.DefaultOptions()
	opts.Algorithm = alg
	if q.Limit > 0 {
		opts.Limit = q.Limit
	}
	if c.QueryParam("include_explanation") != "" {
		opts.IncludeExplanation = q.IncludeExplanation
	}

	opts.Filters = domain.Filters{
		PriceRange: q.PriceRange,
		Language:   q.Language,
	}
	if c.QueryParam("min_rating") != "" {
		minRating := q.MinRating
		opts.Filters.MinRating = &minRating
	}
	if c.QueryParam("min_experience") != "" {
		minExp := q.MinExperience
		opts.Filters.MinExperience = &minExp
	}
	return opts
}

func (h *RecommendationHandler) studentError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, recommendation.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	case errors.Is(err, recommendation.ErrNotStudent):
		return c.JSON(http.StatusForbidden, ResponseError{Message: err.Error()})
	default:
		logger.Error("failed to load student", "trace_id", middleware.TraceID(c), "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to load student"})
	}
}

// POST /api/v1/recommendations/track
func (h *RecommendationHandler) Track(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req TrackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	in := domain.Interaction{
		UserID:          userID,
		InteractionType: req.InteractionType,
		SearchQuery:     req.SearchQuery,
		Source:          req.Source,
		TimeSpent:       req.TimeSpent,
		IsRecommended:   req.IsRecommended,
		AlgorithmUsed:   req.AlgorithmUsed,
	}
	if req.EducatorID != 0 {
		target := req.EducatorID
		in.TargetID = &target
	}
	if len(req.Filters) > 0 {
		in.Filters = datatypes.JSONMap(req.Filters)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	saved, err := h.service.TrackInteraction(ctx, in)
	if err != nil {
		if errors.Is(err, recommendation.ErrInvalidInteraction) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("failed to track interaction", "trace_id", middleware.TraceID(c), "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to track interaction"})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(saved))
}

// GET /api/v1/recommendations/features/:id
func (h *RecommendationHandler) Features(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	feat, err := h.service.Features(ctx, uint(id))
	if err != nil {
		if errors.Is(err, recommendation.ErrFeaturesUnavailable) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(feat))
}

// GET /api/v1/recommendations/metrics
func (h *RecommendationHandler) Metrics(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	m, err := h.service.Metrics(ctx, userID)
	if err != nil {
		logger.Error("failed to get recommendation metrics", "trace_id", middleware.TraceID(c), "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to get metrics"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(m))
}

// POST /api/v1/recommendations/track-search
func (h *RecommendationHandler) TrackSearch(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req TrackSearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	keywords, err := h.service.TrackSearch(ctx, userID, req.SearchQuery, req.Filters)
	if err != nil {
		if errors.Is(err, recommendation.ErrInvalidInteraction) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("failed to track search", "trace_id", middleware.TraceID(c), "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to track search"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(TrackSearchResponse{Keywords: keywords}))
}
