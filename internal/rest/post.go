package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/snapnutrient/snapnutrient/domain"
	"github.com/snapnutrient/snapnutrient/internal/rest/request"
	"github.com/snapnutrient/snapnutrient/internal/rest/response"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// PostHandler  represent the httphandler for the social feed
type PostHandler struct {
	Service domain.PostUsecase
}

const (
	DefaultPageNum = 10
	PageMinNum     = 1
	PageMaxNum     = 50
)

func NewPostHandler(svc domain.PostUsecase) *PostHandler {
	return &PostHandler{
		Service: svc,
	}
}

// Store will store the post by given request body
func (h *PostHandler) Store(c *gin.Context) {
	userID, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, response.Err("User not authenticated"))
		return
	}

	var req request.Post
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	post := req.ToDomain(userID.(string))
	ctx := c.Request.Context()
	if err := h.Service.Store(ctx, &post); err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.OK(response.NewPostFromDomain(&post)))
}

// Fetch will fetch one page of the global feed, newest first. Fetch
// failures degrade to an empty page instead of an error status so the
// client keeps whatever it already rendered.
func (h *PostHandler) Fetch(c *gin.Context) {
	numS := c.Query("limit")
	num, err := strconv.Atoi(numS)
	if err != nil || num < PageMinNum || num > PageMaxNum {
		num = DefaultPageNum
	}

	cursor := c.Query("cursor")
	ctx := c.Request.Context()

	posts, nextCursor, err := h.Service.FetchFeed(ctx, cursor, int64(num))
	if err != nil {
		if err == domain.ErrBadParamInput {
			c.JSON(http.StatusBadRequest, response.Err(err.Error()))
			return
		}
		logrus.Errorf("fetch feed: %v", err)
		c.JSON(http.StatusOK, response.EmptyFeed(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.OK(response.FeedData{
		Posts:  response.NewPostsFromDomain(posts),
		Cursor: nextCursor,
	}))
}

// GetByID will get a single post by its compound key
func (h *PostHandler) GetByID(c *gin.Context) {
	author := c.Query("author")
	photoID := c.Query("photoId")
	if author == "" || photoID == "" {
		c.JSON(http.StatusBadRequest, response.Err(domain.ErrBadParamInput.Error()))
		return
	}

	ctx := c.Request.Context()
	post, err := h.Service.GetByID(ctx, author, photoID)
	if err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}
	if post.PhotoID == "" {
		c.JSON(http.StatusOK, response.OK(nil))
		return
	}

	c.JSON(http.StatusOK, response.OK(response.NewPostFromDomain(&post)))
}

// Like flips the caller's like on the referenced post and returns the
// full updated post so the client can reconcile its optimistic state.
func (h *PostHandler) Like(c *gin.Context) {
	userID, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, response.Err("User not authenticated"))
		return
	}

	var req request.PostRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	ctx := c.Request.Context()
	post, err := h.Service.ToggleLike(ctx, req.Author, req.PhotoID, userID.(string))
	if err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.OK(response.NewPostFromDomain(&post)))
}

// Comment appends the caller's comment and returns the full updated post.
func (h *PostHandler) Comment(c *gin.Context) {
	userID, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, response.Err("User not authenticated"))
		return
	}

	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	ctx := c.Request.Context()
	post, err := h.Service.AppendComment(ctx, req.Author, req.PhotoID, userID.(string), req.Text)
	if err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.OK(response.NewPostFromDomain(&post)))
}

// getStatusCode will get the code of the error from the usecase layer
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	logrus.Error(err)
	switch err {
	case domain.ErrBadParamInput:
		return http.StatusBadRequest
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	case domain.ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
