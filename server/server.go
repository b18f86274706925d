package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moodyo/cache"
	"moodyo/config"
	"moodyo/core/ai"
	"moodyo/core/playlist"
	"moodyo/db"
	"moodyo/logger"
	"moodyo/model"
	"moodyo/repository"
	"moodyo/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(getEnv("LOG_LEVEL", "info")),
		OutputPath: getEnv("LOG_FILE", ""),
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	// 设置服务器超时
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	// Initialize database schema
	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	// GORM持有mood定义表
	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()
	if err := db.AutoMigrateModels(&model.MoodDefinition{}); err != nil {
		logger.Fatal("Failed to migrate models", logger.ErrorField(err))
	}

	// Connect to Redis. Cache is optional: a failed connection degrades to
	// cache-miss behaviour instead of aborting startup.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, song cache disabled", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
		logger.Info("Successfully connected to Redis")
	}

	// 初始化 MinIO（可选，封面图片存储）
	coverStore, err := storage.NewCoverStore(cfg)
	if err != nil {
		logger.Warn("MinIO unavailable, generated covers stay inline", logger.ErrorField(err))
		coverStore = nil
	}

	songRepo := repository.NewMySQLSongRepository()
	moodRepo := repository.NewGormMoodDefinitionRepository(db.GormDB)
	songCache := cache.NewSongCache(db.RedisClient, time.Duration(cfg.SongCacheTTL)*time.Second)

	aiClient := ai.NewClient(cfg)
	playlistGen := ai.NewPlaylistGenerator(aiClient)

	var uploader ai.CoverUploader
	if coverStore != nil {
		uploader = coverStore
	}
	coverGen := ai.NewCoverArtGenerator(aiClient, uploader)

	resolver := playlist.NewResolver(songRepo, playlistGen, coverGen, moodRepo, cfg.PlaylistLength)

	coverFeed := NewCoverFeed()
	resolver.Subscribe(coverFeed.Publish)

	// 初始化处理器
	apiHandler := NewAPIHandler(songRepo, songCache, resolver, coverFeed, cfg)

	// 使用 gorilla/mux 创建路由器
	router := mux.NewRouter()

	// 添加 CORS 中间件
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Session-ID")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// 歌曲目录相关的API端点
	router.HandleFunc("/api/songs/{mood}", apiHandler.GetSongsByMoodHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/songs", apiHandler.ListAllSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/songs", apiHandler.CreateSongHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/admin/songs/{id}", apiHandler.UpdateSongHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/admin/songs/{id}", apiHandler.DeleteSongHandler).Methods(http.MethodDelete)

	// 心情与播放列表相关的API端点
	router.HandleFunc("/api/moods", apiHandler.ListMoodsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/moods/custom", apiHandler.CreateCustomMoodHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/moods/{mood}/playlist", apiHandler.GetMoodPlaylistHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/moods/{mood}/covers/ws", apiHandler.CoverFeedHandler).Methods(http.MethodGet)

	// 播放器相关的API端点
	router.HandleFunc("/api/player", apiHandler.GetPlayerStateHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/player/open", apiHandler.OpenPlayerHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/toggle", apiHandler.TogglePlayPauseHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/seek", apiHandler.SeekHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/mute", apiHandler.ToggleMuteHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/next", apiHandler.NextTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/previous", apiHandler.PreviousTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/event", apiHandler.PlayerEventHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/close", apiHandler.ClosePlayerHandler).Methods(http.MethodPost)

	server.Handler = router

	// 创建一个通道来接收操作系统信号
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 在goroutine中启动服务器
	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	// 等待中断信号
	<-stop
	logger.Info("Shutting down server...")

	// 创建一个5秒超时的上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
