package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snapnutrient/snapnutrient/domain"
	"github.com/snapnutrient/snapnutrient/internal/rest/request"
	"github.com/snapnutrient/snapnutrient/internal/rest/response"
)

// MealHandler  represent the httphandler for the meal log
type MealHandler struct {
	Service domain.MealUsecase
}

func NewMealHandler(svc domain.MealUsecase) *MealHandler {
	return &MealHandler{
		Service: svc,
	}
}

// Store will store a meal entry by given request body
func (h *MealHandler) Store(c *gin.Context) {
	userID, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, response.Err("User not authenticated"))
		return
	}

	var req request.Meal
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	meal := req.ToDomain(userID.(string))
	ctx := c.Request.Context()
	if err := h.Service.Store(ctx, &meal); err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.OK(response.NewMealFromDomain(&meal)))
}

// Fetch will fetch the caller's meals within [start, end], newest first
func (h *MealHandler) Fetch(c *gin.Context) {
	userID, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, response.Err("User not authenticated"))
		return
	}

	start := c.Query("start")
	end := c.Query("end")

	ctx := c.Request.Context()
	meals, err := h.Service.FetchByDateRange(ctx, userID.(string), start, end)
	if err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.OK(response.NewMealsFromDomain(meals)))
}

// Update will replace the name and nutrients of an existing entry
func (h *MealHandler) Update(c *gin.Context) {
	userID, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, response.Err("User not authenticated"))
		return
	}

	var req request.MealUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	meal := req.ToDomain(userID.(string))
	ctx := c.Request.Context()
	if err := h.Service.Update(ctx, &meal); err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.OK(response.NewMealFromDomain(&meal)))
}

// Delete will delete the entry addressed by the createdAt query param
func (h *MealHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, response.Err("User not authenticated"))
		return
	}

	createdAt := c.Query("createdAt")
	if createdAt == "" {
		c.JSON(http.StatusBadRequest, response.Err(domain.ErrBadParamInput.Error()))
		return
	}

	if err := h.Service.Delete(c.Request.Context(), userID.(string), createdAt); err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}

	c.Status(http.StatusNoContent)
}
