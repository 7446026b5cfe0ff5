package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasktrack/internal/cli"
	"github.com/BuzzLyutic/tasktrack/internal/config"
	"github.com/BuzzLyutic/tasktrack/internal/handler"
	"github.com/BuzzLyutic/tasktrack/internal/repo"
	"github.com/BuzzLyutic/tasktrack/internal/service"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg := config.Load()

	// Выбор бэкенда: PostgreSQL при заданном DATABASE_URL, иначе JSON-файл
	var taskRepo repo.TaskRepository
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to Database.") // Fatal потому что дальнейшая работа теряет смысл
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			log.Fatal("Failed to ping the Database.")
		}
		taskRepo = repo.NewPgRepo(pool)
	} else {
		taskRepo = repo.NewFileRepo(cfg.TasksFile)
	}

	taskService := service.NewTaskService(taskRepo)

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "serve" {
		runServe(cfg, logger, taskService)
		return
	}

	app := cli.NewApp(taskService, os.Stdout, os.Stderr)
	code := app.Run(context.Background(), args)

	logger.Sync()
	if pool != nil {
		pool.Close()
	}
	os.Exit(code)
}

func runServe(cfg config.Config, logger *zap.Logger, taskService *service.TaskService) {
	taskHandler := handler.NewTaskHandler(taskService, logger)

	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/api/tasks", taskHandler.Routes)

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started at ", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed: ", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error: ", zap.Error(err))
	}
	logger.Info("Server stopped succsessfully!")
}
