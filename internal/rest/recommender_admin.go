package rest

import (
	"net/http"

	"tutorMarket/business/recommendation"
	"tutorMarket/domain"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type RecommenderAdminHandler struct {
	validate *validator.Validate
	cfgRepo  recommendation.ConfigRepository
}

// ConfigRequest is a tuning row. Zero values fall back to built-in defaults.
type ConfigRequest struct {
	Name                string  `json:"name" validate:"required,max=64"`
	CollaborativeWeight float64 `json:"collaborative_weight" validate:"gte=0,lte=1"`
	ContentWeight       float64 `json:"content_weight" validate:"gte=0,lte=1"`
	PositionDecay       float64 `json:"position_decay" validate:"gte=0,lte=1"`
	OversizeFactor      float64 `json:"oversize_factor" validate:"omitempty,gte=1,lte=5"`
	SimilarityThreshold float64 `json:"similarity_threshold" validate:"gte=0,lte=1"`
	MaxSimilarStudents  int     `json:"max_similar_students" validate:"gte=0,lte=500"`
}

func NewRecommenderAdminHandler(cfgRepo recommendation.ConfigRepository) *RecommenderAdminHandler {
	return &RecommenderAdminHandler{
		validate: validator.New(),
		cfgRepo:  cfgRepo,
	}
}

// GET /api/v1/admin/recommender/config?name=default
func (h *RecommenderAdminHandler) GetConfig(c echo.Context) error {
	ctx := c.Request().Context()

	name := c.QueryParam("name")
	if name == "" {
		name = recommendation.DefaultConfig().ConfigName
	}

	cfg, ok, err := h.cfgRepo.GetConfig(ctx, name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "config not found",
		})
	}

	return c.JSON(http.StatusOK, cfg)
}

// PUT /api/v1/admin/recommender/config
func (h *RecommenderAdminHandler) UpsertConfig(c echo.Context) error {
	ctx := c.Request().Context()

	var body ConfigRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid body: " + err.Error(),
		})
	}
	if err := h.validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	cfg := domain.RecommenderConfig{
		Name:                body.Name,
		CollaborativeWeight: body.CollaborativeWeight,
		ContentWeight:       body.ContentWeight,
		PositionDecay:       body.PositionDecay,
		OversizeFactor:      body.OversizeFactor,
		SimilarityThreshold: body.SimilarityThreshold,
		MaxSimilarStudents:  body.MaxSimilarStudents,
	}
	if err := h.cfgRepo.UpsertConfig(ctx, cfg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
		"config": cfg,
	})
}
