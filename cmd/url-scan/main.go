package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gerardrbentley/url-scan/internal/api"
	"github.com/gerardrbentley/url-scan/internal/config"
	"github.com/gerardrbentley/url-scan/internal/logger"
	"github.com/gerardrbentley/url-scan/internal/ocr"
	"github.com/gerardrbentley/url-scan/internal/scan"
	"github.com/gerardrbentley/url-scan/internal/server"
	"github.com/gerardrbentley/url-scan/internal/urls"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const tldFetchTimeout = 10 * time.Second

func main() {
	mode := "serve"
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("url-scan %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "serve", "mcp":
			mode = os.Args[1]
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
			printHelp()
			os.Exit(2)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "url-scan: %v\n", err)
		os.Exit(1)
	}

	// config.Load has already rejected an unparsable level.
	log, _ := logger.New(cfg.LogLevel)
	log.WithFields(logrus.Fields{
		"version":  Version,
		"commit":   GitCommit,
		"mode":     mode,
		"provider": cfg.Provider,
	}).Info("Starting url-scan")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	detector, err := ocr.New(ctx, cfg.DetectorOptions())
	if err != nil {
		log.WithError(err).Fatal("Failed to create text detector")
	}

	scanner := scan.New(detector, loadExtractor(ctx, cfg, log), scan.Options{
		ByteBudget: cfg.ByteBudget,
		Outline:    cfg.OutlineStyle(),
		Logger:     log,
	})

	switch mode {
	case "mcp":
		server.Version = Version
		if err := server.New(scanner, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Fatal("MCP server error")
		}
	default:
		serveHTTP(ctx, cfg, scanner, log)
	}
}

// loadExtractor refreshes the TLD list when enabled, falling back to the
// built-in list on failure.
func loadExtractor(ctx context.Context, cfg *config.Config, log *logrus.Logger) *urls.Extractor {
	if !cfg.TLDRefresh {
		return urls.New()
	}

	fetchCtx, cancel := context.WithTimeout(ctx, tldFetchTimeout)
	defer cancel()

	extractor, err := urls.Load(fetchCtx, http.DefaultClient, cfg.TLDURL)
	if err != nil {
		log.WithError(err).Warn("Failed to refresh TLD list, using built-in list")
		return urls.New()
	}
	log.WithField("tlds", extractor.TLDCount()).Info("Loaded TLD list")
	return extractor
}

func serveHTTP(ctx context.Context, cfg *config.Config, scanner *scan.Scanner, log *logrus.Logger) {
	if log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(api.NewHandler(scanner, cfg.Provider, log), log)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("ListenAndServe failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("Forced shutdown")
	}
	log.Info("Server stopped")
}

func printHelp() {
	fmt.Println("url-scan - find URLs in images of text")
	fmt.Println()
	fmt.Println("Usage: url-scan [serve|mcp] [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve            Run the HTTP API (default)")
	fmt.Println("  mcp              Run as an MCP server over stdin/stdout")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Println("  URL_SCAN_PROVIDER=rekognition|tesseract|ollama")
	fmt.Println("  AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_REGION   Required for rekognition")
	fmt.Println("  URL_SCAN_ADDR=:8501              HTTP listen address")
	fmt.Println("  URL_SCAN_BYTE_BUDGET=5242880     Largest image sent for detection")
	fmt.Println("  URL_SCAN_DETECT_TIMEOUT=30s      Detection call timeout")
	fmt.Println("  URL_SCAN_LOG_LEVEL=info          Log level (logs go to stderr)")
	fmt.Println("  URL_SCAN_TLD_REFRESH=true        Refresh the TLD list at startup")
}
