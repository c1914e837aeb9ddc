package router

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/registra/records-api/internal/handler"
	"github.com/registra/records-api/internal/middleware"
	"github.com/registra/records-api/internal/models"
	"github.com/registra/records-api/internal/service"
	"github.com/registra/records-api/pkg/config"
	appErrors "github.com/registra/records-api/pkg/errors"
	"github.com/registra/records-api/pkg/logger"
	corsmiddleware "github.com/registra/records-api/pkg/middleware/cors"
	"github.com/registra/records-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/registra/records-api/pkg/middleware/requestid"
	"github.com/registra/records-api/pkg/response"
)

// Deps bundles everything the router wires into routes.
type Deps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *service.MetricsService
	Auth    *service.AuthService
	Limiter *ratelimit.Limiter

	AuthHandler           *handler.AuthHandler
	UserHandler           *handler.UserHandler
	DepartmentHandler     *handler.DepartmentHandler
	ProgramHandler        *handler.ProgramHandler
	SpecializationHandler *handler.SpecializationHandler
	CourseHandler         *handler.CourseHandler
	SchoolTermHandler     *handler.SchoolTermHandler
	StudentHandler        *handler.StudentHandler
	ExportHandler         *handler.ExportHandler
	HealthHandler         *handler.HealthHandler
}

// New builds the gin engine with all middleware and routes attached.
func New(deps Deps) *gin.Engine {
	cfg := deps.Config

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		if allow := allowedMethods(r, c.Request.URL.Path); allow != "" {
			c.Header("Allow", allow)
		}
		response.Error(c, appErrors.ErrMethodNotAllowed)
	})

	r.GET("/health", deps.HealthHandler.Health)
	r.GET("/ready", deps.HealthHandler.Ready)
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	if deps.Limiter != nil {
		auth.Use(deps.Limiter.Middleware())
	}
	auth.POST("/register", deps.AuthHandler.Register)
	auth.POST("/login", deps.AuthHandler.Login)
	auth.POST("/refresh", deps.AuthHandler.Refresh)
	auth.POST("/logout", middleware.JWT(deps.Auth), deps.AuthHandler.Logout)
	auth.GET("/me", middleware.JWT(deps.Auth), deps.AuthHandler.Me)

	protected := api.Group("")
	protected.Use(middleware.JWT(deps.Auth))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	catalogWriters := middleware.RequireRoles(models.RoleAdmin, models.RoleDean, models.RoleProgramChair)

	users := protected.Group("/users")
	users.GET("", adminOnly, deps.UserHandler.List)
	users.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), deps.UserHandler.Get)
	users.PATCH("/:id/approve", adminOnly, deps.UserHandler.Approve)
	users.GET("/:id/approvals", adminOnly, deps.UserHandler.Approvals)
	users.PUT("/:id/profile", middleware.RBAC(string(models.RoleAdmin), "SELF"), deps.UserHandler.UpdateProfile)
	users.POST("/reset-passwords", adminOnly, deps.UserHandler.ResetPasswords)
	users.DELETE("/:id", adminOnly, deps.UserHandler.Delete)

	protected.GET("/roles", adminOnly, deps.UserHandler.Roles)

	departments := protected.Group("/departments")
	departments.GET("", deps.DepartmentHandler.List)
	departments.GET("/:id", deps.DepartmentHandler.Get)
	departments.POST("", catalogWriters, deps.DepartmentHandler.Create)
	departments.PUT("/:id", catalogWriters, deps.DepartmentHandler.Update)
	departments.DELETE("/:id", adminOnly, deps.DepartmentHandler.Delete)

	programs := protected.Group("/programs")
	programs.GET("", deps.ProgramHandler.List)
	programs.GET("/:id", deps.ProgramHandler.Get)
	programs.POST("", catalogWriters, deps.ProgramHandler.Create)
	programs.PUT("/:id", catalogWriters, deps.ProgramHandler.Update)
	programs.DELETE("/:id", adminOnly, deps.ProgramHandler.Delete)

	specializations := protected.Group("/program-specializations")
	specializations.GET("", deps.SpecializationHandler.List)
	specializations.GET("/:id", deps.SpecializationHandler.Get)
	specializations.POST("", catalogWriters, deps.SpecializationHandler.Create)
	specializations.PUT("/:id", catalogWriters, deps.SpecializationHandler.Update)
	specializations.DELETE("/:id", adminOnly, deps.SpecializationHandler.Delete)

	courses := protected.Group("/courses")
	courses.GET("", deps.CourseHandler.List)
	courses.GET("/export", deps.ExportHandler.Courses)
	courses.GET("/:id", deps.CourseHandler.Get)
	courses.POST("", catalogWriters, deps.CourseHandler.Create)
	courses.PUT("/:id", catalogWriters, deps.CourseHandler.Update)
	courses.DELETE("/:id", adminOnly, deps.CourseHandler.Delete)

	terms := protected.Group("/school-terms")
	terms.GET("", deps.SchoolTermHandler.List)
	terms.GET("/:id", deps.SchoolTermHandler.Get)
	terms.POST("", adminOnly, deps.SchoolTermHandler.Create)
	terms.PUT("/:id", adminOnly, deps.SchoolTermHandler.Update)
	terms.PATCH("/:id/toggle-status", adminOnly, deps.SchoolTermHandler.ToggleStatus)
	terms.DELETE("/:id", adminOnly, deps.SchoolTermHandler.Delete)

	students := protected.Group("/students")
	students.GET("", deps.StudentHandler.List)
	students.GET("/export", deps.ExportHandler.Students)
	students.GET("/:id", deps.StudentHandler.Get)
	students.POST("", catalogWriters, deps.StudentHandler.Create)
	students.PUT("/:id", catalogWriters, deps.StudentHandler.Update)
	students.DELETE("/:id", adminOnly, deps.StudentHandler.Delete)

	return r
}

// allowedMethods lists the methods registered for a request path, for the
// Allow header on 405 responses.
func allowedMethods(engine *gin.Engine, path string) string {
	seen := make(map[string]struct{})
	for _, route := range engine.Routes() {
		if matchRoute(route.Path, path) {
			seen[route.Method] = struct{}{}
		}
	}
	methods := make([]string, 0, len(seen))
	for m := range seen {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}

func matchRoute(pattern, path string) bool {
	p := strings.Split(strings.Trim(pattern, "/"), "/")
	q := strings.Split(strings.Trim(path, "/"), "/")

	catchAll := len(p) > 0 && strings.HasPrefix(p[len(p)-1], "*")
	if catchAll {
		if len(q) < len(p)-1 {
			return false
		}
		p = p[:len(p)-1]
		q = q[:len(p)]
	} else if len(p) != len(q) {
		return false
	}

	for i := range p {
		if strings.HasPrefix(p[i], ":") {
			continue
		}
		if p[i] != q[i] {
			return false
		}
	}
	return true
}
