// ABOUTME: Entry point for the support-gateway server
// ABOUTME: Routes customer websocket traffic to specialized support handlers

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/Partha-CreoIT/customer-support-agent/internal/config"
	"github.com/Partha-CreoIT/customer-support-agent/internal/genai"
	"github.com/Partha-CreoIT/customer-support-agent/internal/handler"
	"github.com/Partha-CreoIT/customer-support-agent/internal/orchestrator"
	"github.com/Partha-CreoIT/customer-support-agent/internal/session"
	"github.com/Partha-CreoIT/customer-support-agent/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                                     _
 ___ _   _ _ __  _ __   ___  _ __ __| |_
/ __| | | | '_ \| '_ \ / _ \| '__/ _' __|
\__ \ |_| | |_) | |_) | (_) | | | (_| |_
|___/\__,_| .__/| .__/ \___/|_|  \__,\__|  gateway
          |_|   |_|
`

// getConfigPath returns the path to the gateway config file.
// Priority: SUPPORT_CONFIG env var > ./gateway.yaml > ~/.config/support-gateway/gateway.yaml
func getConfigPath() string {
	if envPath := os.Getenv("SUPPORT_CONFIG"); envPath != "" {
		return envPath
	}

	if _, err := os.Stat("gateway.yaml"); err == nil {
		return "gateway.yaml"
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "gateway.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "support-gateway", "gateway.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: support-gateway <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve    Start the gateway server")
		fmt.Println("  init     Create a default config file")
		fmt.Println("  seed     Insert demo orders into the order database")
		fmt.Println("  health   Check gateway health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "seed":
		err = runSeed(ctx)
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Listen:    %s\n", cfg.Server.ListenAddr)
	green.Print("    ▶ ")
	fmt.Printf("Backend:   %s (%s)\n", cfg.Backend.URL, cfg.Backend.Model)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", cfg.Database.Path)
	fmt.Println()

	logger.Info("starting support-gateway",
		"config", configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"backend", cfg.Backend.URL,
	)

	orders, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening order store: %w", err)
	}
	defer orders.Close()

	gen := genai.NewClient(cfg.Backend.URL, cfg.Backend.Model, cfg.Backend.Timeout, logger)

	registry, err := handler.NewRegistry(
		handler.NewGeneral(gen, logger),
		handler.NewTechnical(gen, logger),
		handler.NewBilling(gen, logger),
		handler.NewEscalation(gen, logger),
		handler.NewOrders(orders, logger),
	)
	if err != nil {
		return fmt.Errorf("building handler registry: %w", err)
	}

	orch := orchestrator.New(registry, cfg.Routing, logger)
	srv := session.NewServer(cfg, orch, logger)

	return srv.Run(ctx)
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = &colorHandler{
			level: level,
		}
	}

	return slog.New(h)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

// runInit writes a default config file if none exists.
func runInit() error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists: %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configContent := `# support-gateway configuration
# Generated by support-gateway init

server:
  listen_addr: "localhost:8090"

database:
  path: "support.db"

backend:
  url: "http://localhost:11434"
  model: "llama3.2"
  timeout: "30s"

session:
  idle_timeout: "5m"
  welcome_text: "Welcome to our AI Customer Support! How can I help you today?"

routing:
  escalation_confidence: 0.3
  stickiness_ratio: 0.8
  max_turns_same_handler: 5
  contact_retry_ceiling: 3

logging:
  level: "info"
  format: "text"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Created config: %s\n", configPath)
	return nil
}

// runSeed inserts a handful of demo orders so the order-lookup flow can be
// exercised without external data.
func runSeed(ctx context.Context) error {
	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	orders, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening order store: %w", err)
	}
	defer orders.Close()

	demo := []*store.Order{
		{OrderNumber: "ORD-1001", CustomerName: "Ada Lovelace", Email: "ada@example.com", Status: "shipped", TotalPaid: 49.99, Currency: "USD"},
		{OrderNumber: "ORD-1002", CustomerName: "Ada Lovelace", Email: "ada@example.com", Status: "processing", TotalPaid: 129.00, Currency: "USD"},
		{OrderNumber: "ORD-2001", CustomerName: "Grace Hopper", Email: "grace@example.com", Status: "delivered", TotalPaid: 19.50, Currency: "USD"},
	}

	green := color.New(color.FgGreen)
	for _, o := range demo {
		o.ID = uuid.New().String()
		o.CreatedAt = time.Now().UTC()
		if err := orders.InsertOrder(ctx, o); err != nil {
			return fmt.Errorf("seeding order %s: %w", o.OrderNumber, err)
		}
		green.Printf("  ✓ Seeded %s (%s)\n", o.OrderNumber, o.Email)
	}

	count, err := orders.CountOrders(ctx)
	if err != nil {
		return fmt.Errorf("counting orders: %w", err)
	}
	fmt.Printf("  %d order(s) in %s\n", count, cfg.Database.Path)
	return nil
}

func runHealth(ctx context.Context) error {
	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/health", cfg.Server.ListenAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}
