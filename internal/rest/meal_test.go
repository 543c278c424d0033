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

type stubMealUsecase struct {
	meals    []domain.MealRecord
	fetchErr error
	storeErr error
	updErr   error
	delErr   error

	gotUser  string
	gotStart string
	gotEnd   string
	gotMeal  domain.MealRecord
}

func (s *stubMealUsecase) Store(ctx context.Context, m *domain.MealRecord) error {
	s.gotMeal = *m
	return s.storeErr
}

func (s *stubMealUsecase) FetchByDateRange(ctx context.Context, userID, start, end string) ([]domain.MealRecord, error) {
	s.gotUser = userID
	s.gotStart = start
	s.gotEnd = end
	return s.meals, s.fetchErr
}

func (s *stubMealUsecase) Update(ctx context.Context, m *domain.MealRecord) error {
	s.gotMeal = *m
	return s.updErr
}

func (s *stubMealUsecase) Delete(ctx context.Context, userID, createdAt string) error {
	s.gotUser = userID
	return s.delErr
}

func newMealRouter(svc domain.MealUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := rest.NewMealHandler(svc)
	auth := r.Group("/", middleware.RequireIdentity())
	auth.POST("/meals", h.Store)
	auth.GET("/meals", h.Fetch)
	auth.PUT("/meals", h.Update)
	auth.DELETE("/meals", h.Delete)
	return r
}

func TestMealHandlerStore(t *testing.T) {
	svc := &stubMealUsecase{}
	r := newMealRouter(svc)

	body := `{"imageKey":"meals/x.jpg","mealName":"Salad","nutrients":{"calories":320,"protein":12,"carbohydrates":30,"fat":14,"fiber":8,"sugar":6,"sodium":400}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/meals", bytes.NewBufferString(body))
	req.Header.Set(middleware.IdentityHeader, "ann@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "ann@example.com", svc.gotMeal.UserID)
	assert.Equal(t, "Salad", svc.gotMeal.Name)
	assert.EqualValues(t, 320, svc.gotMeal.Nutrients.Calories)
}

func TestMealHandlerStoreMissingName(t *testing.T) {
	r := newMealRouter(&stubMealUsecase{})

	body := `{"imageKey":"meals/x.jpg","nutrients":{"calories":1}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/meals", bytes.NewBufferString(body))
	req.Header.Set(middleware.IdentityHeader, "ann@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMealHandlerFetch(t *testing.T) {
	svc := &stubMealUsecase{
		meals: []domain.MealRecord{
			{UserID: "ann@example.com", CreatedAt: "2026-08-30T12:00:00Z", Name: "Salad"},
		},
	}
	r := newMealRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/meals?start=2026-08-01&end=2026-08-31", nil)
	req.Header.Set(middleware.IdentityHeader, "ann@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2026-08-01", svc.gotStart)
	assert.Equal(t, "2026-08-31", svc.gotEnd)

	var out struct {
		Data []response.Meal `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, "Salad", out.Data[0].Name)
}

func TestMealHandlerFetchRequiresIdentity(t *testing.T) {
	r := newMealRouter(&stubMealUsecase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/meals", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMealHandlerFetchBadRange(t *testing.T) {
	svc := &stubMealUsecase{fetchErr: domain.ErrBadParamInput}
	r := newMealRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/meals?start=2026-08-31&end=2026-08-01", nil)
	req.Header.Set(middleware.IdentityHeader, "ann@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMealHandlerUpdateMissingRecord(t *testing.T) {
	svc := &stubMealUsecase{updErr: domain.ErrNotFound}
	r := newMealRouter(svc)

	body := `{"createdAt":"2026-08-30T12:00:00Z","mealName":"Soup","nutrients":{"calories":100}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/meals", bytes.NewBufferString(body))
	req.Header.Set(middleware.IdentityHeader, "ann@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMealHandlerDelete(t *testing.T) {
	svc := &stubMealUsecase{}
	r := newMealRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/meals?createdAt=2026-08-30T12:00:00Z", nil)
	req.Header.Set(middleware.IdentityHeader, "ann@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "ann@example.com", svc.gotUser)
}

func TestMealHandlerDeleteWithoutKey(t *testing.T) {
	r := newMealRouter(&stubMealUsecase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/meals", nil)
	req.Header.Set(middleware.IdentityHeader, "ann@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
