package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snapnutrient/snapnutrient/domain"
	"github.com/snapnutrient/snapnutrient/internal/rest/request"
	"github.com/snapnutrient/snapnutrient/internal/rest/response"
)

// ProfileHandler  represent the httphandler for user profiles
type ProfileHandler struct {
	Service domain.ProfileUsecase
}

func NewProfileHandler(svc domain.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{
		Service: svc,
	}
}

// Get returns the caller's profile with a signed avatar URL. A missing
// profile answers with null data so new users get an empty form, not a 404.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, response.Err("User not authenticated"))
		return
	}

	ctx := c.Request.Context()
	profile, err := h.Service.Get(ctx, userID.(string))
	if err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}
	if profile.Email == "" {
		c.JSON(http.StatusOK, response.OK(nil))
		return
	}

	c.JSON(http.StatusOK, response.OK(response.NewProfileFromDomain(&profile)))
}

// Register creates the caller's profile
func (h *ProfileHandler) Register(c *gin.Context) {
	userID, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, response.Err("User not authenticated"))
		return
	}

	var req request.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	profile := req.ToDomain(userID.(string))
	ctx := c.Request.Context()
	if err := h.Service.Register(ctx, &profile); err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.OK(response.NewProfileFromDomain(&profile)))
}

// Update modifies the caller's display name and avatar key
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, response.Err("User not authenticated"))
		return
	}

	var req request.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	profile := req.ToDomain(userID.(string))
	ctx := c.Request.Context()
	if err := h.Service.Update(ctx, &profile); err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.OK(response.NewProfileFromDomain(&profile)))
}
