package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"workforce/internal/config"
	"workforce/internal/embedding"
	"workforce/internal/history"
	"workforce/internal/llm"
	"workforce/internal/logging"
	"workforce/internal/manager"
	"workforce/internal/orchestrator"
	"workforce/internal/render"
	"workforce/internal/roster"
)

var (
	// Global flags
	verbose   bool
	apiKey    string
	workspace string
	timeout   time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "workforce",
	Short: "AI Workforce Manager - route requests to specialist agents",
	Long: `workforce is a multi-agent assistant that routes each request to the
best-suited specialist agent, or chains several specialists into a
sequential workflow.

Every interaction is embedded and stored, so routing decisions and
specialist responses stay consistent with past conversations.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "workforce" && cmd.CalledAs() == "workforce" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat()
	},
}

// runCmd processes a single request and prints the response
var runCmd = &cobra.Command{
	Use:   "run [request]",
	Short: "Process a single request through the workforce",
	Long: `Routes one natural language request through the full pipeline:
  1. Classify: decide which specialist (or chain) should handle it
  2. Dispatch: invoke the specialist(s) with historical context
  3. Log: embed and persist the interaction`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRequest,
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search past conversations by similarity",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversations",
	RunE:  runHistory,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history collection statistics",
	RunE:  runStats,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored conversations",
	RunE:  runClear,
}

var (
	searchLimit  int
	historyLimit int
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "LLM API key (or set OPENAI_API_KEY / GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall operation timeout")

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "Maximum results")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum conversations")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveWorkspace returns the configured workspace or the current directory.
func resolveWorkspace() string {
	if workspace != "" {
		return workspace
	}
	cwd, _ := os.Getwd()
	return cwd
}

// buildManager wires the whole pipeline from the workspace config. An
// embedding engine that fails to come up is fatal here: there is no
// degraded mode without similarity search.
func buildManager(ws string) (*manager.Manager, *roster.Roster, *config.Config, error) {
	logging.Initialize(ws)

	cfg, err := config.Load(ws)
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}

	engine, err := embedding.NewEngine(embedding.Config{
		Provider:       cfg.Embedding.Provider,
		OllamaEndpoint: cfg.Embedding.OllamaEndpoint,
		OllamaModel:    cfg.Embedding.OllamaModel,
		GenAIAPIKey:    cfg.Embedding.GenAIAPIKey,
		GenAIModel:     cfg.Embedding.GenAIModel,
	})
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("embedding engine unavailable: %w", err)
	}

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("failed to create LLM client: %w", err)
	}

	specialists, err := roster.Load(roster.DefaultPath(ws))
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("failed to load roster: %w", err)
	}

	store, err := history.Open(cfg.History.Dir, cfg.History.Collection, engine)
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("failed to open history: %w", err)
	}

	orch := orchestrator.New(orchestrator.Params{
		Client:         client,
		Roster:         specialists,
		History:        store,
		Renderer:       render.NewPDFRenderer(cfg.Render.OutputDir),
		RecentWindow:   cfg.History.RecentWindow,
		DecisionWindow: cfg.History.DecisionWindow,
	})

	return manager.New(orch, specialists, store), specialists, cfg, nil
}

// runRequest handles the one-shot `run` subcommand.
func runRequest(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	request := strings.Join(args, " ")
	logger.Info("Processing request", zap.String("input", request))

	m, _, _, err := buildManager(resolveWorkspace())
	if err != nil {
		return err
	}

	response := m.Handle(ctx, request)
	fmt.Println(response)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	m, _, _, err := buildManager(resolveWorkspace())
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	matches, err := m.Search(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(matches) == 0 {
		fmt.Println("No similar conversations found.")
		return nil
	}

	fmt.Printf("Found %d similar conversations:\n\n", len(matches))
	for i, match := range matches {
		fmt.Printf("%d. Similarity: %.3f\n", i+1, match.Score)
		fmt.Printf("   User:  %s\n", firstChars(match.Record.UserPrompt, 100))
		fmt.Printf("   Agent: %s\n", match.Record.RouteLabel)
		fmt.Printf("   Time:  %s\n\n", match.Record.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	m, _, _, err := buildManager(resolveWorkspace())
	if err != nil {
		return err
	}

	records := m.Recent(historyLimit)
	if len(records) == 0 {
		fmt.Println("No conversations stored yet.")
		return nil
	}

	fmt.Printf("Recent conversations:\n\n")
	for i, rec := range records {
		fmt.Printf("%d. %s\n", i+1, rec.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Printf("   User:  %s\n", firstChars(rec.UserPrompt, 80))
		fmt.Printf("   Agent: %s\n\n", rec.RouteLabel)
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	m, specialists, _, err := buildManager(resolveWorkspace())
	if err != nil {
		return err
	}

	stats := m.Stats()
	fmt.Printf("Collection:  %s\n", stats.Collection)
	fmt.Printf("Location:    %s\n", stats.Location)
	fmt.Printf("Records:     %d\n", stats.Count)
	fmt.Printf("Dimension:   %d\n", stats.Dimension)
	fmt.Printf("Specialists: %d\n", specialists.Len())
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	m, _, _, err := buildManager(resolveWorkspace())
	if err != nil {
		return err
	}
	if err := m.ClearHistory(); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	fmt.Println("History cleared.")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func firstChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
