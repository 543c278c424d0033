package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapnutrient/snapnutrient/domain"
	"github.com/snapnutrient/snapnutrient/internal/rest"
	"github.com/snapnutrient/snapnutrient/internal/rest/middleware"
	"github.com/snapnutrient/snapnutrient/internal/rest/response"
)

type stubProfileUsecase struct {
	profile     domain.UserProfile
	getErr      error
	registerErr error
	updateErr   error

	gotProfile domain.UserProfile
}

func (s *stubProfileUsecase) Get(ctx context.Context, email string) (domain.UserProfile, error) {
	return s.profile, s.getErr
}

func (s *stubProfileUsecase) Register(ctx context.Context, u *domain.UserProfile) error {
	s.gotProfile = *u
	return s.registerErr
}

func (s *stubProfileUsecase) Update(ctx context.Context, u *domain.UserProfile) error {
	s.gotProfile = *u
	return s.updateErr
}

func newProfileRouter(svc domain.ProfileUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := rest.NewProfileHandler(svc)
	auth := r.Group("/", middleware.RequireIdentity())
	auth.GET("/profile", h.Get)
	auth.POST("/profile", h.Register)
	auth.PUT("/profile", h.Update)
	return r
}

func TestProfileHandlerGet(t *testing.T) {
	svc := &stubProfileUsecase{
		profile: domain.UserProfile{
			Email:     "ann@example.com",
			Name:      "Ann",
			AvatarURL: "https://signed/avatar",
		},
	}
	r := newProfileRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set(middleware.IdentityHeader, "ann@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Data response.Profile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Ann", out.Data.Name)
	assert.Equal(t, "https://signed/avatar", out.Data.AvatarURL)
}

func TestProfileHandlerGetUnregistered(t *testing.T) {
	r := newProfileRouter(&stubProfileUsecase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set(middleware.IdentityHeader, "new@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Nil(t, env.Data)
}

func TestProfileHandlerRegisterConflict(t *testing.T) {
	svc := &stubProfileUsecase{registerErr: domain.ErrConflict}
	r := newProfileRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/profile", bytes.NewBufferString(`{"name":"Ann"}`))
	req.Header.Set(middleware.IdentityHeader, "ann@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProfileHandlerUpdate(t *testing.T) {
	svc := &stubProfileUsecase{}
	r := newProfileRouter(svc)

	body := `{"name":"Ann B","profileImage":"avatars/new.jpg"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/profile", bytes.NewBufferString(body))
	req.Header.Set(middleware.IdentityHeader, "ann@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ann@example.com", svc.gotProfile.Email)
	assert.Equal(t, "avatars/new.jpg", svc.gotProfile.ProfileImage)
}

func TestProfileHandlerUpdateMissingName(t *testing.T) {
	r := newProfileRouter(&stubProfileUsecase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/profile", bytes.NewBufferString(`{"profileImage":"x.jpg"}`))
	req.Header.Set(middleware.IdentityHeader, "ann@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
