package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/luminaoffer/lumina-offer/internal/ai"
	"github.com/luminaoffer/lumina-offer/internal/ai/gemini"
	"github.com/luminaoffer/lumina-offer/internal/line"
	"github.com/luminaoffer/lumina-offer/internal/logger"
	"github.com/luminaoffer/lumina-offer/internal/pipeline"
	"github.com/luminaoffer/lumina-offer/internal/secrets"
	"github.com/luminaoffer/lumina-offer/internal/server"
	"github.com/luminaoffer/lumina-offer/internal/sheets"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultRefreshInterval = 10 * time.Minute
	defaultTimezone        = "Asia/Tokyo"
	shutdownTimeout        = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the lumina-offer HTTP server",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "listen port (overrides server.port)")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

// serve wires the spreadsheet tables, the LINE transport and the Gemini
// ranker into the HTTP server and blocks until shutdown.
func serve(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the lumina-offer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}
	if config.Sheets == nil || config.Sheets.SpreadsheetID == "" {
		logger.Fatal("spreadsheet id is required under sheets.spreadsheet-id")
	}
	if config.Line == nil {
		logger.Fatal("line channel configuration is required under line")
	}

	values, err := sheets.NewGoogleValues(ctx, resolveSheetsCredentials(config), config.Sheets.SpreadsheetID)
	if err != nil {
		logger.Fatal("creating sheets client", zap.Error(err))
	}

	client := sheets.New(values, logger)
	users := sheets.NewUserTable(client)
	offers := sheets.NewOfferTable(client)
	postings := sheets.NewPostingTable(client)

	cache := sheets.NewPostingCache(postings, logger)
	if err := cache.Refresh(ctx); err != nil {
		logger.Warn("priming the posting cache failed, will retry on schedule", zap.Error(err))
	}

	interval := config.Sheets.RefreshInterval
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if err := cache.StartRefresh(ctx, interval); err != nil {
		logger.Fatal("starting the posting cache refresh", zap.Error(err))
	}
	defer cache.Stop()

	messenger, err := newMessenger(config, logger)
	if err != nil {
		logger.Fatal("creating line messenger",
			zap.Error(err),
			zap.String("hint", "set LINE_CHANNEL_TOKEN_FILE and LINE_CHANNEL_SECRET_FILE or the line section in the configuration file"),
		)
	}

	ranker, err := newRanker(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("creating offer ranker",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or GEMINI_API_KEY_FILE"),
		)
	}

	deferral, err := newDeferral(ctx, config.Offer, logger)
	if err != nil {
		logger.Fatal("configuring the send window", zap.Error(err))
	}

	composer := pipeline.NewComposer(ranker, logger)
	dispatcher := pipeline.NewDispatcher(offers, messenger, logger)
	intake := pipeline.NewIntake(users, cache, composer, dispatcher, messenger, deferral, logger)

	handler := server.NewHandler(intake, offers, messenger, logger)
	engine := server.NewEngine(handler, logger)

	port := ""
	if config.Server != nil {
		port = config.Server.Port
	}

	srv := &http.Server{
		Addr:    server.Addr(port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("listening", zap.String("addr", srv.Addr))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutting down http server", zap.Error(err))
	}
}

func resolveSheetsCredentials(config *Config) string {
	if config.Sheets != nil && config.Sheets.CredentialsFile != "" {
		return config.Sheets.CredentialsFile
	}
	return viper.GetString("sheets.credentials-file")
}

func newMessenger(config *Config, logger *zap.Logger) (*line.Messenger, error) {
	token, err := secrets.Load(secrets.Source{
		Name: "line channel token",
		File: config.Line.ChannelTokenFile,
		Env:  "LINE_CHANNEL_TOKEN",
	})
	if err != nil {
		return nil, err
	}

	secret, err := secrets.Load(secrets.Source{
		Name: "line channel secret",
		File: config.Line.ChannelSecretFile,
		Env:  "LINE_CHANNEL_SECRET",
	})
	if err != nil {
		return nil, err
	}

	return line.NewMessenger(line.Config{
		ChannelToken:  token,
		ChannelSecret: secret,
		LiffID:        config.Line.LiffID,
		LearnMoreURL:  config.Line.LearnMoreURL,
	}, logger)
}

func newRanker(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Recommender, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required under ai.gemini")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	rankerLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewRanker(generator, rankerLogger, cfg.Gemini.MaxLogLength), nil
}

func newDeferral(ctx context.Context, cfg *OfferConfig, logger *zap.Logger) (*pipeline.Deferral, error) {
	if cfg == nil || strings.TrimSpace(cfg.SendAt) == "" {
		return nil, nil
	}

	timezone := cfg.Timezone
	if timezone == "" {
		timezone = defaultTimezone
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	return pipeline.NewDeferral(ctx, cfg.SendAt, loc, logger)
}
