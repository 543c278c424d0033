package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/snapnutrient/snapnutrient/domain"
	"github.com/snapnutrient/snapnutrient/internal/rest/request"
	"github.com/snapnutrient/snapnutrient/internal/rest/response"
)

// MediaHandler  represent the httphandler for signed blob URLs
type MediaHandler struct {
	Issuer domain.BlobURLIssuer
}

func NewMediaHandler(issuer domain.BlobURLIssuer) *MediaHandler {
	return &MediaHandler{
		Issuer: issuer,
	}
}

// UploadURL issues a presigned upload slot for a fresh object key.
func (h *MediaHandler) UploadURL(c *gin.Context) {
	var req request.UploadURL
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	ctx := c.Request.Context()
	ticket, err := h.Issuer.IssueUploadURL(ctx, req.FileType, req.Folder)
	if err != nil {
		c.JSON(getStatusCode(err), response.Err(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.OK(response.NewUploadTicketFromDomain(ticket)))
}

// DownloadURLs resolves a batch of object keys to signed read URLs. The
// endpoint always answers 200: keys that fail to sign are left out and the
// client falls back per key.
func (h *MediaHandler) DownloadURLs(c *gin.Context) {
	var req request.DownloadURLs
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	ctx := c.Request.Context()
	urls, err := h.Issuer.IssueBatchDownloadURLs(ctx, req.Keys)
	if err != nil {
		if err == domain.ErrBadParamInput {
			c.JSON(http.StatusBadRequest, response.Err(err.Error()))
			return
		}
		logrus.Errorf("batch download urls: %v", err)
		urls = map[string]string{}
	}

	c.JSON(http.StatusOK, response.OK(response.DownloadURLs{URLs: urls}))
}
