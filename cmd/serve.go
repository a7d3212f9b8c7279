package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-parser/internal/logger"
	"github.com/spigell/cv-parser/internal/metrics"
	"github.com/spigell/cv-parser/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("address", "", "listen address (default :8000)")
	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(logger.Options{
		JSON:    viper.GetBool("json"),
		Debug:   viper.GetBool("debug"),
		Service: app,
		Version: version,
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-parser api", zap.String("version", version))

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()

	extractor, release, err := newExtractor(ctx, config, logger, m)
	if err != nil {
		logger.Fatal("creating the extractor", zap.Error(err))
	}
	defer release()

	proc := newProcessor(config, extractor, logger).WithMetrics(m)

	srv := server.New(server.Config{
		Address:        config.Server.Address,
		Version:        version,
		AllowedOrigins: config.Server.AllowedOrigins,
	}, proc, m, m.Handler(), logger)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}
