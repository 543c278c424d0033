package rest

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/snapnutrient/snapnutrient/domain"
	"github.com/snapnutrient/snapnutrient/internal/rest/request"
	"github.com/snapnutrient/snapnutrient/internal/rest/response"
)

// NutritionHandler  represent the httphandler for AI nutrition analysis
type NutritionHandler struct {
	Service domain.NutritionUsecase
}

func NewNutritionHandler(svc domain.NutritionUsecase) *NutritionHandler {
	return &NutritionHandler{
		Service: svc,
	}
}

// AnalyzeImage runs the assistant over a base64 meal photo and returns the
// structured analysis
func (h *NutritionHandler) AnalyzeImage(c *gin.Context) {
	var req request.AnalyzeImage
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	// Browsers send data URLs; strip the "data:image/...;base64," prefix.
	raw := req.Image
	if idx := strings.Index(raw, ","); idx >= 0 && strings.HasPrefix(raw, "data:") {
		raw = raw[idx+1:]
	}
	image, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Err(domain.ErrBadParamInput.Error()))
		return
	}

	ctx := c.Request.Context()
	analysis, err := h.Service.AnalyzeImage(ctx, image)
	if err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.OK(response.NewMealAnalysisFromDomain(&analysis)))
}

// Recommend turns a nutrient history into per-nutrient advisories
func (h *NutritionHandler) Recommend(c *gin.Context) {
	var req request.Recommend
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	ctx := c.Request.Context()
	recs, err := h.Service.Recommend(ctx, req.ToDomain())
	if err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.OK(recs))
}
