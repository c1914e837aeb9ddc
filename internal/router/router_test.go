package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/registra/records-api/internal/handler"
	"github.com/registra/records-api/internal/service"
	"github.com/registra/records-api/pkg/config"
)

func testEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := service.NewAuthService(nil, nil, nil, nil, service.AuthConfig{AccessTokenSecret: "test-secret"})
	users := service.NewUserService(nil, nil, nil, nil, nil, 0, "")

	return New(Deps{
		Config:  &config.Config{Env: "test", APIPrefix: "/api"},
		Logger:  zap.NewNop(),
		Metrics: service.NewMetricsService(),
		Auth:    auth,

		AuthHandler:           handler.NewAuthHandler(auth, users),
		UserHandler:           handler.NewUserHandler(users),
		DepartmentHandler:     handler.NewDepartmentHandler(service.NewDepartmentService(nil, nil, nil)),
		ProgramHandler:        handler.NewProgramHandler(service.NewProgramService(nil, nil, nil, nil)),
		SpecializationHandler: handler.NewSpecializationHandler(service.NewSpecializationService(nil, nil, nil, nil)),
		CourseHandler:         handler.NewCourseHandler(service.NewCourseService(nil, nil, nil, nil, nil)),
		SchoolTermHandler:     handler.NewSchoolTermHandler(service.NewTermService(nil, nil, nil)),
		StudentHandler:        handler.NewStudentHandler(service.NewStudentService(nil, nil, nil)),
		ExportHandler:         handler.NewExportHandler(service.NewExportService(nil, nil, nil)),
		HealthHandler:         handler.NewHealthHandler(&sqlx.DB{}),
	})
}

func TestMethodNotAllowedSetsAllowHeader(t *testing.T) {
	engine := testEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/health", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET", w.Header().Get("Allow"))
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	engine := testEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/departments", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthRouteIsPublic(t *testing.T) {
	engine := testEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
