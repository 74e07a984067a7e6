package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/rotehq/notebridge/internal/config"
	"github.com/rotehq/notebridge/internal/handler"
	"github.com/rotehq/notebridge/internal/job"
	"github.com/rotehq/notebridge/internal/middleware"
	"github.com/rotehq/notebridge/internal/schedule"
	"github.com/rotehq/notebridge/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "notebridge",
		Short: "notebridge conversion server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run notebridge server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("upload_tmp_dir", cfg.UploadTmpDir),
		zap.Int("api_timeout_sec", cfg.APITimeoutSec),
	)

	converts := service.NewConvertService(time.Duration(cfg.APITimeoutSec) * time.Second)
	convertHandler := handler.NewConvertHandler(
		converts,
		service.NewPreviewRenderer(),
		cfg.MaxUploadBytes,
		cfg.UploadTmpDir,
	)

	deps := handler.RouterDeps{
		Convert:         convertHandler,
		RateLimitWindow: time.Duration(cfg.RateLimitMS) * time.Millisecond,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	cleanup := job.NewUploadCleanupJob(
		cfg.UploadTmpDir,
		service.UploadPrefix,
		time.Duration(cfg.Cleanup.MaxAgeHours)*time.Hour,
	)
	if err := scheduler.AddJob(cleanup, cfg.Cleanup.Spec); err != nil {
		return fmt.Errorf("schedule cleanup: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
