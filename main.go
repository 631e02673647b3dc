package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"gradesense/artifact"
	"gradesense/db"
	qhttp "gradesense/http"
	"gradesense/logging"
	"gradesense/monitoring"
)

type Config struct {
	Artifacts struct {
		Path  string `yaml:"path"`
		Watch bool   `yaml:"watch"`
	} `yaml:"artifacts"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Http struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Log logging.Config `yaml:"log"`
}

func main() {
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.Init(config.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Sync()

	// Artifacts load once at startup. A failed load is not a crash: the
	// process stays up, health reports which blobs are missing, and
	// prediction requests get 503 until a valid set appears.
	store := artifact.NewStore()
	bundle, status, err := artifact.Load(config.Artifacts.Path)
	if err != nil {
		store.SetStatus(status)
		logger.Error("artifact load failed, serving degraded",
			zap.String("dir", config.Artifacts.Path), zap.Error(err))
	} else {
		store.Swap(bundle, status)
		logger.Info("artifacts loaded",
			zap.String("model_version", bundle.ModelVersion),
			zap.Int("features", len(bundle.FeatureOrder)))
	}

	if err := db.InitDB(config.Database.Path); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("database initialized", zap.String("path", config.Database.Path))

	metrics := monitoring.NewMetrics()
	feed := monitoring.NewFeed()
	go feed.Run()
	defer feed.Stop()

	qhttp.SetArtifactStore(store)
	qhttp.SetMetrics(metrics)
	qhttp.SetFeed(feed)
	qhttp.EnableAudit(true)
	if err := qhttp.InitResultCache(config.Cache.Size); err != nil {
		logger.Fatal("failed to initialize result cache", zap.Error(err))
	}

	if config.Artifacts.Watch {
		watcher, err := artifact.WatchDir(config.Artifacts.Path, store, metrics.RecordArtifactReload)
		if err != nil {
			logger.Error("artifact watcher unavailable", zap.Error(err))
		} else {
			defer watcher.Close()
			logger.Info("watching artifact directory", zap.String("dir", config.Artifacts.Path))
		}
	}

	serverConfig := qhttp.DefaultServerConfig()
	serverConfig.Port = config.Http.Port
	if config.Http.TimeoutSeconds > 0 {
		serverConfig.Timeout = time.Duration(config.Http.TimeoutSeconds) * time.Second
	}
	if len(config.Http.AllowedOrigins) > 0 {
		serverConfig.AllowedOrigins = config.Http.AllowedOrigins
	}

	server := qhttp.NewServer(serverConfig)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("exiting")
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
