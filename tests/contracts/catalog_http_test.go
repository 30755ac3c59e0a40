package contracts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/campuslab/internal/catalog/application"
	catalogHTTP "github.com/davicafu/campuslab/internal/catalog/infra/inbound/http"
	sharedEvents "github.com/davicafu/campuslab/shared/events"
	"github.com/davicafu/campuslab/tests/mocks"
)

// courseHTTPResponse define el formato que esperamos en las respuestas JSON
type courseHTTPResponse struct {
	Data struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Category string `json:"category"`
		Status   string `json:"status"`
	} `json:"data"`
}

func newCatalogRouter(repo *mocks.InMemoryCourseRepo, dualPublish bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := application.NewCatalogService(repo, dualPublish, zap.NewNop())
	handler := catalogHTTP.NewCourseHandler(service)
	router := gin.New()
	catalogHTTP.RegisterCourseRoutes(router, handler)
	return router
}

func TestCreateCourse_HTTPContract(t *testing.T) {
	repo := mocks.NewInMemoryCourseRepo()
	router := newCatalogRouter(repo, false)

	body := bytes.NewBufferString(`{"title":"Go desde cero","category":"programming"}`)
	req := httptest.NewRequest(http.MethodPost, "/courses/", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp courseHTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Go desde cero", resp.Data.Title)
	assert.Equal(t, "programming", resp.Data.Category)
	assert.Equal(t, "active", resp.Data.Status)

	// La creación vía HTTP deja el evento de integración en el outbox.
	require.Len(t, repo.Outbox, 1)
	assert.Equal(t, sharedEvents.CourseCreatedV2Type, repo.Outbox[0].EventType)
}

func TestCreateCourse_HTTPContract_MissingFields(t *testing.T) {
	repo := mocks.NewInMemoryCourseRepo()
	router := newCatalogRouter(repo, false)

	body := bytes.NewBufferString(`{"title":"sin categoria"}`)
	req := httptest.NewRequest(http.MethodPost, "/courses/", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.Outbox)
}

func TestGetCourse_HTTPContract(t *testing.T) {
	repo := mocks.NewInMemoryCourseRepo()
	router := newCatalogRouter(repo, false)

	service := application.NewCatalogService(repo, false, zap.NewNop())
	course, err := service.CreateCourse(context.Background(), "Kafka en producción", "infra")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/courses/"+course.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp courseHTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, course.ID.String(), resp.Data.ID)
	assert.Equal(t, "Kafka en producción", resp.Data.Title)

	// Curso inexistente
	req2 := httptest.NewRequest(http.MethodGet, "/courses/"+uuid.New().String(), nil)
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)

	assert.Equal(t, http.StatusNotFound, rec2.Code)
	assert.Contains(t, rec2.Body.String(), "course not found")
}

func TestArchiveCourse_HTTPContract(t *testing.T) {
	repo := mocks.NewInMemoryCourseRepo()
	router := newCatalogRouter(repo, false)

	service := application.NewCatalogService(repo, false, zap.NewNop())
	course, err := service.CreateCourse(context.Background(), "Curso a retirar", "infra")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/courses/"+course.ID.String()+"/archive", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp courseHTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "archived", resp.Data.Status)

	require.Len(t, repo.Outbox, 2)
	assert.Equal(t, sharedEvents.CourseArchivedV1Type, repo.Outbox[1].EventType)
}
