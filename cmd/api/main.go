package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/registra/records-api/api/swagger"
	"github.com/registra/records-api/internal/handler"
	"github.com/registra/records-api/internal/models"
	"github.com/registra/records-api/internal/repository"
	"github.com/registra/records-api/internal/router"
	"github.com/registra/records-api/internal/service"
	"github.com/registra/records-api/pkg/cache"
	"github.com/registra/records-api/pkg/config"
	"github.com/registra/records-api/pkg/database"
	"github.com/registra/records-api/pkg/logger"
	"github.com/registra/records-api/pkg/middleware/ratelimit"
)

// @title Records API
// @version 1.0.0
// @description Academic records management for departments, programs, courses, terms, students and staff accounts
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		redisClient, redisErr := cache.NewRedis(cfg.Redis)
		if redisErr != nil {
			logr.Sugar().Warnw("redis unavailable, rate limiter falls back to in-memory windows", "error", redisErr)
		} else {
			defer redisClient.Close()
		}
		limiter = ratelimit.New(redisClient, cfg.RateLimit.PerMinute)
	}

	validate := service.NewValidator()

	departmentRepo := repository.NewDepartmentRepository(db)
	programRepo := repository.NewProgramRepository(db)
	specializationRepo := repository.NewSpecializationRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	termRepo := repository.NewTermRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	departmentSvc := service.NewDepartmentService(departmentRepo, validate, logr)
	programSvc := service.NewProgramService(programRepo, departmentRepo, validate, logr)
	specializationSvc := service.NewSpecializationService(specializationRepo, programRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, specializationRepo, termRepo, validate, logr)
	termSvc := service.NewTermService(termRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	userSvc := service.NewUserService(userRepo, roleRepo, termRepo, validate, logr, cfg.Auth.BcryptCost, models.RoleName(cfg.Auth.DefaultRole))
	authSvc := service.NewAuthService(userRepo, tokenRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	exportSvc := service.NewExportService(studentRepo, courseRepo, logr)
	metricsSvc := service.NewMetricsService()

	engine := router.New(router.Deps{
		Config:  cfg,
		Logger:  logr,
		Metrics: metricsSvc,
		Auth:    authSvc,
		Limiter: limiter,

		AuthHandler:           handler.NewAuthHandler(authSvc, userSvc),
		UserHandler:           handler.NewUserHandler(userSvc),
		DepartmentHandler:     handler.NewDepartmentHandler(departmentSvc),
		ProgramHandler:        handler.NewProgramHandler(programSvc),
		SpecializationHandler: handler.NewSpecializationHandler(specializationSvc),
		CourseHandler:         handler.NewCourseHandler(courseSvc),
		SchoolTermHandler:     handler.NewSchoolTermHandler(termSvc),
		StudentHandler:        handler.NewStudentHandler(studentSvc),
		ExportHandler:         handler.NewExportHandler(exportSvc),
		HealthHandler:         handler.NewHealthHandler(db),
	})

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	logr.Info("server stopped", zap.String("env", cfg.Env))
}
