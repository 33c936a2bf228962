package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Petrels/config"
	"github.com/lshigami/Petrels/database"
	adminctrl "github.com/lshigami/Petrels/internal/controller/admin"
	userctrl "github.com/lshigami/Petrels/internal/controller/user"
	"github.com/lshigami/Petrels/internal/logger"
	"github.com/lshigami/Petrels/internal/model"
	"github.com/lshigami/Petrels/internal/repository"
	"github.com/lshigami/Petrels/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Course Quiz & Progress API
// @version 1.0
// @description Quiz attempt lifecycle, deterministic grading and enrollment progress tracking for course content.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewQuizRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewEnrollmentRepository,
			repository.NewLessonRepository,
		),

		fx.Provide(
			service.NewGradingService,
			service.NewAttemptPolicy,
			service.NewLogEventPublisher,
			service.NewQuizService,
			service.NewProgressService,
			service.NewAttemptService,
		),

		fx.Provide(
			adminctrl.NewAdminQuizController,
			userctrl.NewAttemptController,
			userctrl.NewProgressController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
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

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminQuizCtrl *adminctrl.AdminQuizController,
	attemptCtrl *userctrl.AttemptController,
	progressCtrl *userctrl.ProgressController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.POST("/quizzes", adminQuizCtrl.CreateQuiz)
		adminAPIGroup.GET("/quizzes/:quiz_id", adminQuizCtrl.GetQuiz)
		adminAPIGroup.POST("/quizzes/:quiz_id/publish", adminQuizCtrl.PublishQuiz)
		adminAPIGroup.PUT("/questions/:question_id", adminQuizCtrl.UpdateQuestion)
	}

	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.POST("/enrollments/:enrollment_id/quizzes/:quiz_id/attempts", attemptCtrl.StartAttempt)
		userAPIGroup.GET("/enrollments/:enrollment_id/quizzes/:quiz_id/attempts", attemptCtrl.GetAttemptHistory)
		userAPIGroup.PUT("/attempts/:attempt_id/answers", attemptCtrl.SaveAnswer)
		userAPIGroup.POST("/attempts/:attempt_id/submit", attemptCtrl.SubmitAttempt)
		userAPIGroup.GET("/attempts/:attempt_id", attemptCtrl.GetAttemptDetails)

		userAPIGroup.POST("/enrollments/:enrollment_id/lessons/:lesson_id/complete", progressCtrl.CompleteLesson)
		userAPIGroup.GET("/enrollments/:enrollment_id/progress", progressCtrl.GetProgress)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Course Quiz API server starting on port %s", cfg.Server.Port)
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
		&model.Course{},
		&model.Lesson{},
		&model.LessonCompletion{},
		&model.Enrollment{},
		&model.Quiz{},
		&model.Question{},
		&model.QuizAttempt{},
		&model.AttemptAnswer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
