package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"OfflinePlayer/cache"
	"OfflinePlayer/config"
	"OfflinePlayer/core/library"
	"OfflinePlayer/db"
	"OfflinePlayer/logger"
	"OfflinePlayer/repository"
	"OfflinePlayer/storage"

	"github.com/gorilla/mux"
)

const homeText = "Offline Music Player API is running!"

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()
	initLogger(cfg)
	defer logger.Sync()

	// 设置服务器超时
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	// Connect to the database
	gdb, err := db.ConnectGormDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	// Initialize database schema
	if err := db.InitSchema(gdb); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	songs := repository.NewGormSongRepository(gdb)

	// Redis 只做列表缓存，连不上时直接读数据库
	if rdb, err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, song list cache disabled", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
		songs = cache.NewCachedSongRepository(songs, rdb, cfg.SongCacheTTL)
		logger.Info("Successfully connected to Redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	media, err := storage.NewMediaStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize media store", logger.ErrorField(err))
	}
	switch store := media.(type) {
	case *storage.LocalStore:
		if err := store.Watch(ctx); err != nil {
			logger.Warn("media directory not watched", logger.String("dir", store.Root()), logger.ErrorField(err))
		}
	case *storage.MinioStore:
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Fatal("Failed to initialize MinIO bucket", logger.ErrorField(err))
		}
	}

	handler := NewHandler(songs, media)
	player := NewPlayerHandler(ctx, library.NewClient(cfg.APIURL))
	server.Handler = NewRouter(handler, player, cfg.WebAppDir)

	// 创建一个通道来接收操作系统信号
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting",
			logger.String("addr", cfg.ServerAddr),
			logger.String("media", cfg.MediaBackend),
			logger.String("api", cfg.APIURL))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	// 等待中断信号
	<-stop
	logger.Info("Shutting down server...")

	// 播放会话是被劫持的连接，Shutdown 不会等待它们
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}

func initLogger(cfg *config.Config) {
	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   true,
	})
}

// NewRouter 注册全部路由。player 为 nil 时不提供 /ws/player。
// webAppDir 为空时 GET / 返回 API 说明，否则 GET / 返回 index.html。
func NewRouter(h *Handler, player http.Handler, webAppDir string) *mux.Router {
	router := mux.NewRouter()

	// 添加 CORS 中间件
	router.Use(corsMiddleware)
	// 预检请求需要一条能匹配的路由，中间件才会执行
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	// 配置了页面目录时根路径交给文件服务器，返回播放器页面
	if webAppDir == "" {
		router.HandleFunc("/", h.HomeHandler).Methods(http.MethodGet)
	}
	router.HandleFunc("/check_directory", h.CheckDirectoryHandler).Methods(http.MethodGet)
	router.HandleFunc("/list_songs", h.ListMediaHandler).Methods(http.MethodGet)
	router.HandleFunc("/songs/{path:.+}", h.ServeMediaHandler).Methods(http.MethodGet, http.MethodHead)

	// 曲库 API
	router.HandleFunc("/get_songs", h.GetSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/search_song", h.SearchSongHandler).Methods(http.MethodGet)
	router.HandleFunc("/add_song", h.AddSongHandler).Methods(http.MethodPost)
	router.HandleFunc("/update_song/{id}", h.UpdateSongHandler).Methods(http.MethodPut)
	router.HandleFunc("/delete_song/{id}", h.DeleteSongHandler).Methods(http.MethodDelete)

	if player != nil {
		router.Handle("/ws/player", player)
	}

	// Frontend UI serving
	if webAppDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(webAppDir)))
	}

	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Range")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
