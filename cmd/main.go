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

	"studyforge/config"
	"studyforge/database"
	"studyforge/internal/controller"
	"studyforge/internal/logger"
	"studyforge/internal/model"
	"studyforge/internal/repository"
	"studyforge/internal/service"
)

// @title StudyForge API
// @version 1.0
// @description Document-grounded exam generation and practice. Upload study material, generate exams with AI, take attempts and get grounded explanations for mistakes.
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
			repository.NewDocumentRepository,
			repository.NewChunkRepository,
			repository.NewExamRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
		),

		fx.Provide(
			service.NewOpenAIService,
			service.NewEmbeddingService,
			service.NewCompletionService,
			service.NewObjectStorage,
			service.NewTextExtractor,
			service.NewIngestionService,
			service.NewDocumentService,
			service.NewRetrievalService,
			service.NewExamGenerationService,
			service.NewExamService,
			service.NewExplanationService,
			service.NewAttemptService,
		),

		fx.Provide(
			controller.NewDocumentController,
			controller.NewExamController,
			controller.NewAttemptController,
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
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	documentCtrl *controller.DocumentController,
	examCtrl *controller.ExamController,
	attemptCtrl *controller.AttemptController,
) {
	api := router.Group("/api/v1")
	{
		documents := api.Group("/documents")
		documents.POST("", documentCtrl.UploadDocument)
		documents.GET("", documentCtrl.ListDocuments)
		documents.GET("/:document_id", documentCtrl.GetDocument)
		documents.PUT("/:document_id", documentCtrl.UpdateDocument)
		documents.DELETE("/:document_id", documentCtrl.DeleteDocument)

		exams := api.Group("/exams")
		exams.POST("/generate", examCtrl.GenerateExam)
		exams.GET("", examCtrl.ListExams)
		exams.GET("/:exam_id", examCtrl.GetExam)
		exams.PUT("/:exam_id", examCtrl.UpdateExam)
		exams.DELETE("/:exam_id", examCtrl.DeleteExam)
		exams.GET("/:exam_id/attempts", attemptCtrl.ListAttempts)

		attempts := api.Group("/attempts")
		attempts.POST("", attemptCtrl.CreateAttempt)
		attempts.GET("/:attempt_id", attemptCtrl.GetAttempt)
		attempts.PATCH("/:attempt_id", attemptCtrl.UpdateAttempt)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("StudyForge API server starting on port %s", cfg.Server.Port)
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
		&model.Document{},
		&model.DocumentChunk{},
		&model.Exam{},
		&model.Question{},
		&model.ExamAttempt{},
		&model.Answer{},
		&model.AnswerExplanation{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
