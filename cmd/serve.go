package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"agridash/database"
	"agridash/dataset"
	"agridash/handlers"
	"agridash/server"
	"agridash/services"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	runtime, err := services.NewRuntime(&cfg.LLM)
	if err != nil {
		return err
	}
	if cfg.LLM.APIKey == "" && cfg.LLM.Provider != "ollama" {
		log.Warn("no LLM API key configured; chat requests will report an error",
			zap.String("provider", cfg.LLM.Provider))
	}

	loader := dataset.NewLoader(&cfg.Data, log)
	warehouse := database.NewWarehouse(&cfg.Warehouse, log)
	chat := services.NewChatRelay(runtime, cfg.LLM.Timeout, log)
	h := handlers.New(loader, warehouse, chat, cfg.Server.MaxUploadBytes, log)

	log.Info("configuration loaded",
		zap.String("data_dir", cfg.Data.Dir),
		zap.Bool("cache_datasets", cfg.Data.Cache),
		zap.String("warehouse_driver", cfg.Warehouse.Driver),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model))

	apiServer := server.New(&cfg.Server, h, log)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- apiServer.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-shutdown:
		log.Info("received signal", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := apiServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info("shutdown complete")
		return nil
	}
}
