package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/receipt-processor/internal/receipt"
	"github.com/zombor/receipt-processor/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	fs := ff.NewFlagSet("receipt-processor")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		storeType   = fs.StringLong("store", "memory", "Receipt store: 'memory', 'buntdb' or 'bolt'")
		scratchDir  = fs.StringLong("scratch-dir", "", "Directory for the bolt scratch file (default OS temp dir)")
		scannerType = fs.StringLong("scanner", "none", "Receipt image scanner: 'none', 'gemini' or 'ollama'")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL   = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = fs.StringLong("ollama-model", "llava", "Ollama vision model name")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_PROCESSOR"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := run(*port, *storeType, *scratchDir, *scannerType, scannerConfig{
		geminiKey:   *geminiKey,
		geminiModel: *geminiModel,
		ollamaURL:   *ollamaURL,
		ollamaModel: *ollamaModel,
	}); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

type scannerConfig struct {
	geminiKey   string
	geminiModel string
	ollamaURL   string
	ollamaModel string
}

func run(port int, storeType, scratchDir, scannerType string, sc scannerConfig) error {
	slog.Info("Initializing store...", "type", storeType)
	store, err := openStore(storeType, scratchDir)
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close store", "error", err)
		}
	}()

	scanner, err := openScanner(scannerType, sc)
	if err != nil {
		return fmt.Errorf("initializing scanner: %w", err)
	}
	if scanner != nil {
		defer scanner.Close()
	}

	server := receipt.NewServer(receipt.NewService(store, scanner))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost:%d", port), "version", version)
	if err := server.ListenAndServe(ctx, fmt.Sprintf(":%d", port)); err != nil {
		return fmt.Errorf("serving: %w", err)
	}

	slog.Info("Shutting down...")
	return nil
}

func openStore(storeType, scratchDir string) (receipt.Store, error) {
	switch storeType {
	case "memory":
		return receipt.NewMemoryStore(), nil
	case "buntdb":
		return receipt.NewBuntStore()
	case "bolt":
		return receipt.NewBoltStore(scratchDir)
	default:
		return nil, fmt.Errorf("invalid store type %q (valid: memory, buntdb, bolt)", storeType)
	}
}

// openScanner returns a nil Scanner when scanning is disabled
func openScanner(scannerType string, sc scannerConfig) (scanning.Scanner, error) {
	switch scannerType {
	case "none", "":
		return nil, nil
	case "gemini":
		apiKey := sc.geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini scanner...", "model", sc.geminiModel)
		return scanning.NewGemini(apiKey, sc.geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", sc.ollamaURL, "model", sc.ollamaModel)
		return scanning.NewOllama(sc.ollamaURL, sc.ollamaModel)
	default:
		return nil, fmt.Errorf("invalid scanner type %q (valid: none, gemini, ollama)", scannerType)
	}
}
