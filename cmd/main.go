package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"gradebook/config"
	"gradebook/database"
	_ "gradebook/docs" // Swagger docs - auto-generated
	"gradebook/internal/controller"
	"gradebook/internal/logger"
	"gradebook/internal/middleware"
	"gradebook/internal/model"
	"gradebook/internal/repository"
	"gradebook/internal/service"
)

// @title Gradebook API
// @version 1.0
// @description REST API for managing courses, students, assignments, submissions and grades.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewCourseRepository,
			repository.NewEnrollmentRepository,
			repository.NewAssignmentRepository,
			repository.NewQuestionRepository,
			repository.NewSubmissionRepository,
			repository.NewAnswerRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewAuthService,
			service.NewUserService,
			service.NewCourseService,
			service.NewAssignmentService,
			service.NewSubmissionService,
		),

		// API Controllers Layer
		fx.Provide(
			controller.NewAuthController,
			controller.NewUserController,
			controller.NewCourseController,
			controller.NewAssignmentController,
			controller.NewSubmissionController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Route Gin's request log through the global zerolog instance.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the HTTP
// server lifecycle through fx hooks.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authCtrl *controller.AuthController,
	userCtrl *controller.UserController,
	courseCtrl *controller.CourseController,
	assignmentCtrl *controller.AssignmentController,
	submissionCtrl *controller.SubmissionController,
) {
	api := router.Group("/api/v1")

	// Public routes: login and registration.
	api.POST("/auth/login", authCtrl.Login)
	api.POST("/users", userCtrl.Register)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(cfg))
	{
		authed.POST("/auth/logout", authCtrl.Logout)
		authed.GET("/auth/session", authCtrl.Session)

		authed.GET("/users/:id", userCtrl.Get)
		authed.PUT("/users/:id", userCtrl.Update)

		authed.GET("/courses", courseCtrl.List)
		authed.GET("/courses/:id", courseCtrl.Get)
		authed.GET("/courses/:id/assignments", assignmentCtrl.ListByCourse)

		authed.GET("/assignments", assignmentCtrl.List)
		authed.GET("/assignments/:id", assignmentCtrl.Get)
		authed.GET("/assignments/:id/questions", assignmentCtrl.ListQuestions)

		authed.GET("/submissions/:id", submissionCtrl.Get)
		authed.GET("/students/:id/submissions", submissionCtrl.ListByStudent)
	}

	teacher := api.Group("")
	teacher.Use(middleware.RequireAuth(cfg), middleware.RequireRole(model.RoleTeacher))
	{
		teacher.GET("/users", userCtrl.List)
		teacher.DELETE("/users/:id", userCtrl.Delete)

		teacher.POST("/courses", courseCtrl.Create)
		teacher.PUT("/courses/:id", courseCtrl.Update)
		teacher.DELETE("/courses/:id", courseCtrl.Delete)
		teacher.GET("/courses/:id/students", courseCtrl.ListStudents)
		teacher.POST("/courses/:id/students", courseCtrl.EnrollStudent)
		teacher.DELETE("/courses/:id/students/:student_id", courseCtrl.RemoveStudent)

		teacher.POST("/assignments", assignmentCtrl.Create)
		teacher.PUT("/assignments/:id", assignmentCtrl.Update)
		teacher.DELETE("/assignments/:id", assignmentCtrl.Delete)

		teacher.GET("/assignments/:id/submissions", submissionCtrl.ListByAssignment)
		teacher.POST("/submissions/:id/grade", submissionCtrl.Grade)
	}

	student := api.Group("")
	student.Use(middleware.RequireAuth(cfg), middleware.RequireRole(model.RoleStudent))
	{
		student.POST("/submissions", submissionCtrl.Create)
		student.PUT("/submissions/:id", submissionCtrl.Update)
		student.DELETE("/submissions/:id", submissionCtrl.Delete)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Gradebook API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Enrollment{},
		&model.Assignment{},
		&model.Question{},
		&model.Submission{},
		&model.Answer{},
		&model.Grade{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
