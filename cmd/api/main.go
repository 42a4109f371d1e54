package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-api/internal/config"
	"github.com/yourusername/exam-api/internal/handler"
	"github.com/yourusername/exam-api/internal/middleware"
	"github.com/yourusername/exam-api/internal/repository/postgres"
	"github.com/yourusername/exam-api/internal/service"
	"github.com/yourusername/exam-api/internal/service/grading"
	"github.com/yourusername/exam-api/internal/storage"
	"github.com/yourusername/exam-api/pkg/auth"
	"github.com/yourusername/exam-api/pkg/database"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "путь к файлу конфигурации")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Подключение к PostgreSQL и применение миграций
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode)

	db, err := database.NewPostgresDB(dsn)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Ошибка миграции базы данных: %v", err)
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Fatalf("Ошибка инициализации JWT: %v", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BaseDir)
	if err != nil {
		log.Fatalf("Ошибка инициализации хранилища файлов: %v", err)
	}

	// Репозитории
	adminRepo := postgres.NewAdminRepo(db)
	pesertaRepo := postgres.NewPesertaRepo(db)
	examRepo := postgres.NewExamRepo(db)
	questionRepo := postgres.NewQuestionRepo(db)
	optionRepo := postgres.NewOptionRepo(db)
	hasilRepo := postgres.NewHasilRepo(db)
	inviteRepo := postgres.NewInvitationRepo(db)
	settingsRepo := postgres.NewSettingsRepo(db)
	resetRepo := postgres.NewResetRepo(db)

	// Сервисы
	mailer := service.NewSMTPMailer()
	gradingEngine := grading.NewEngine(optionRepo)
	authService := service.NewAuthService(adminRepo, jwtService)
	adminService := service.NewAdminService(adminRepo)
	examService := service.NewExamService(examRepo, questionRepo, db)
	hasilService := service.NewHasilService(hasilRepo, examRepo, optionRepo, gradingEngine, db)
	pesertaService := service.NewPesertaService(pesertaRepo)
	inviteService := service.NewInviteService(inviteRepo, pesertaRepo, examRepo, settingsRepo, mailer)
	settingsService := service.NewSettingsService(settingsRepo)
	resetService := service.NewResetService(resetRepo, adminRepo, settingsRepo, mailer)

	// Обработчики
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(adminService)
	examHandler := handler.NewExamHandler(examService, fileStorage)
	hasilHandler := handler.NewHasilHandler(hasilService, fileStorage)
	pesertaHandler := handler.NewPesertaHandler(pesertaService)
	inviteHandler := handler.NewInviteHandler(inviteService)
	settingsHandler := handler.NewSettingsHandler(settingsService, fileStorage)
	resetHandler := handler.NewResetHandler(resetService)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	router := gin.Default()

	if gin.Mode() == gin.ReleaseMode {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	allowedOrigins := cfg.CORS.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Раздача загруженных файлов (ответы участников, изображения)
	router.Static("/storage", fileStorage.BaseDir())

	api := router.Group("/api")
	{
		// Публичные маршруты
		api.POST("/admin/login", authHandler.Login)
		api.POST("/invite/login", inviteHandler.Login)
		api.POST("/forgot-password", resetHandler.Request)
		api.GET("/settings", settingsHandler.All)
		api.GET("/ujian/public/:id", middleware.ExtractUintParam("id", "examID"), examHandler.GetPublic)
		api.GET("/ujian/:id/active", middleware.ExtractUintParam("id", "examID"), examHandler.CheckActive)

		// Отправка ответов участниками: аутентификация по коду приглашения
		// происходит на фронтенде, ядро идентифицирует участника по peserta_id
		api.POST("/hasil/draft", hasilHandler.SaveDraft)
		api.POST("/hasil", hasilHandler.Submit)

		// Защищенные маршруты администраторов
		authorized := api.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			authGroup := authorized.Group("/auth/admin")
			{
				authGroup.GET("/me", authHandler.Me)
				authGroup.POST("/logout", authHandler.Logout)
			}

			ujianGroup := authorized.Group("/ujian")
			{
				ujianGroup.GET("", examHandler.List)
				ujianGroup.POST("", examHandler.Create)
				ujianGroup.GET("/:id", middleware.ExtractUintParam("id", "examID"), examHandler.Get)
				ujianGroup.PUT("/:id", middleware.ExtractUintParam("id", "examID"), examHandler.Update)
				ujianGroup.DELETE("/:id", middleware.ExtractUintParam("id", "examID"), examHandler.Delete)
			}

			hasilGroup := authorized.Group("/hasil")
			{
				hasilGroup.GET("", hasilHandler.Recap)
				hasilGroup.GET("/peserta/:peserta_id", middleware.ExtractUintParam("peserta_id", "pesertaID"), hasilHandler.ByPeserta)
				hasilGroup.PUT("/nilai-manual", hasilHandler.ManualGrade)
			}

			pesertaGroup := authorized.Group("/peserta")
			{
				pesertaGroup.GET("", pesertaHandler.List)
				pesertaGroup.POST("", pesertaHandler.Create)
				pesertaGroup.POST("/import", pesertaHandler.Import)
				pesertaGroup.GET("/export", pesertaHandler.Export)
				pesertaGroup.GET("/:id", middleware.ExtractUintParam("id", "pesertaID"), pesertaHandler.Get)
				pesertaGroup.PUT("/:id", middleware.ExtractUintParam("id", "pesertaID"), pesertaHandler.Update)
				pesertaGroup.DELETE("/:id", middleware.ExtractUintParam("id", "pesertaID"), pesertaHandler.Delete)
			}

			inviteGroup := authorized.Group("/invite")
			{
				inviteGroup.POST("", inviteHandler.Invite)
				inviteGroup.GET("/list", inviteHandler.List)
				inviteGroup.DELETE("/:id", middleware.ExtractUintParam("id", "inviteID"), inviteHandler.Delete)
			}

			settingsGroup := authorized.Group("/settings")
			{
				settingsGroup.POST("", settingsHandler.Save)
				settingsGroup.GET("/smtp", settingsHandler.GetSmtp)
				settingsGroup.PUT("/smtp", settingsHandler.SaveSmtp)
			}

			authorized.POST("/admins/change-password", adminHandler.ChangePassword)

			// Маршруты только для суперадмина
			superadmin := authorized.Group("")
			superadmin.Use(authMiddleware.SuperadminOnly())
			{
				adminsGroup := superadmin.Group("/admins")
				{
					adminsGroup.GET("", adminHandler.List)
					adminsGroup.POST("", adminHandler.Create)
					adminsGroup.DELETE("/:id", middleware.ExtractUintParam("id", "targetAdminID"), adminHandler.Delete)
					adminsGroup.PUT("/:id/role", middleware.ExtractUintParam("id", "targetAdminID"), adminHandler.UpdateRole)
					adminsGroup.PUT("/:id/username", middleware.ExtractUintParam("id", "targetAdminID"), adminHandler.UpdateUsername)
					adminsGroup.PATCH("/:id/status", middleware.ExtractUintParam("id", "targetAdminID"), adminHandler.ToggleStatus)
				}

				resetGroup := superadmin.Group("/forgot-password")
				{
					resetGroup.GET("", resetHandler.List)
					resetGroup.POST("/approve", resetHandler.Approve)
					resetGroup.POST("/reject", resetHandler.Reject)
				}
			}
		}
	}

	// HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
