package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/insight/internal/application"
	appanalysis "github.com/bryanwahyu/insight/internal/application/analysis"
	"github.com/bryanwahyu/insight/internal/client"
	"github.com/bryanwahyu/insight/internal/config"
	"github.com/bryanwahyu/insight/internal/domain/ai"
	"github.com/bryanwahyu/insight/internal/infra/ai/anthropic"
	"github.com/bryanwahyu/insight/internal/infra/ai/openai"
	"github.com/bryanwahyu/insight/internal/infra/ai/prompt"
	"github.com/bryanwahyu/insight/internal/infra/httpserver"
	"github.com/bryanwahyu/insight/internal/tui"
)

var (
	version   = "0.1.0"
	cfgFile   string
	serverURL string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "insight",
		Short:   "Paste text, get an AI analysis with findings and a score",
		Version: version,
		RunE:    runServe,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigPath(), "Path to config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web page and the analysis API",
		RunE:  runServe,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Analyze from the terminal against a running server",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "Base URL of the insight server")

	rootCmd.AddCommand(serveCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "config.yaml"
}

func runServe(cmd *cobra.Command, args []string) error {
	config.LoadDotEnv()
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := log.New(os.Stdout, "[insight] ", log.LstdFlags)

	provider := newProvider(cfg)
	if provider == nil {
		logger.Printf("warning: %s is not set; /api/analyze will answer 503", cfg.CredentialEnv())
	}

	svc := appanalysis.NewService(provider, prompt.GetSystemPrompt(), appanalysis.Options{
		CredentialEnv: cfg.CredentialEnv(),
		MaxTokens:     cfg.AI.MaxTokens,
		MaxInputChars: cfg.AI.MaxInputChars,
		Timeout:       cfg.AI.Timeout,
	}, application.SystemClock{}, logger)

	router := httpserver.NewRouter(svc, cfg, logger)
	defer router.Close()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("server listening on %s provider=%s model=%s", srv.Addr, cfg.AI.Provider, cfg.AI.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	logger.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("shutdown error: %v", err)
	}
	return nil
}

// newProvider returns nil when no credential is configured.
func newProvider(cfg *config.Config) ai.Provider {
	if cfg.AI.APIKey == "" {
		return nil
	}
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		return openai.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
	default:
		return anthropic.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctrl := client.NewController(client.NewHTTPAnalyzer(serverURL))
	p := tui.NewProgram(cmd.Context(), ctrl, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok && m.Export() != "" {
		fmt.Println(m.Export())
	}
	return nil
}
