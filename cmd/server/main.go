package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizadmin/internal/cache"
	"quizadmin/internal/config"
	"quizadmin/internal/handlers"
	"quizadmin/internal/metrics"
	"quizadmin/internal/repositories"
	mongorepo "quizadmin/internal/repositories/mongo"
	"quizadmin/internal/routers"
	"quizadmin/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// stores bundles the persistence chosen by STORE_BACKEND.
type stores struct {
	questions services.QuestionStore
	quizzes   services.QuizStore
	pingers   map[string]handlers.Pinger
	close     func(context.Context)
}

func newRouter(cfg *config.Config, logger *zap.Logger, svc *services.QuizService, pingers map[string]handlers.Pinger) *chi.Mux {
	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)

	routers.HealthRoutes(router, handlers.NewHealthHandler(pingers), metrics.Handler())
	routers.QuestionRoutes(router, handlers.NewQuestionHandler(svc, logger))
	routers.QuizRoutes(router, handlers.NewQuizHandler(svc, logger))
	return router
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.Backend == config.BackendMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		questionRepo := repositories.NewQuestionRepository()
		return &stores{
			questions: questionRepo,
			quizzes:   repositories.NewQuizRepository(),
			pingers:   map[string]handlers.Pinger{"store": questionRepo},
			close:     func(context.Context) {},
		}, nil
	}

	client, err := mongorepo.NewClient(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	questionCol, err := client.Collection(cfg.QuestionCol)
	if err != nil {
		return nil, err
	}
	quizCol, err := client.Collection(cfg.QuizCol)
	if err != nil {
		return nil, err
	}

	questionRepo := mongorepo.NewQuestionRepo(questionCol)
	quizRepo := mongorepo.NewQuizRepo(quizCol)
	if err := questionRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure question indexes: %w", err)
	}
	if err := quizRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure quiz indexes: %w", err)
	}
	logger.Info("connected to mongo", zap.String("db", cfg.DBName))

	return &stores{
		questions: questionRepo,
		quizzes:   quizRepo,
		pingers:   map[string]handlers.Pinger{"mongo": client},
		close: func(ctx context.Context) {
			if err := client.Disconnect(ctx); err != nil {
				logger.Warn("mongo disconnect failed", zap.Error(err))
			}
		},
	}, nil
}

func openCache(cfg *config.Config, logger *zap.Logger, pingers map[string]handlers.Pinger) (cache.Store, func()) {
	if !cfg.CacheEnabled() {
		logger.Info("REDIS_ADDR not set, read cache disabled")
		return cache.Nop{}, func() {}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	store := cache.NewRedisStore(rdb, "quizadmin", cfg.CacheTTL)
	pingers["redis"] = store
	logger.Info("read cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	return store, func() { rdb.Close() }
}

func main() {
	logger, _ := zap.NewProduction()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	st, err := openStores(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	readCache, closeCache := openCache(cfg, logger, st.pingers)

	svc := services.NewQuizService(st.questions, st.quizzes, readCache, logger)
	router := newRouter(cfg, logger, svc, st.pingers)

	serverAddr := ":" + cfg.Port

	// HTTP server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Quiz service starting", zap.String("addr", serverAddr), zap.String("backend", cfg.Backend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Quiz service shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	closeCache()
	st.close(ctx)

	logger.Info("Quiz service exited")
}
