package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"scenariogen/internal/agent"
	"scenariogen/internal/config"
	"scenariogen/internal/export"
	"scenariogen/internal/llm"
	"scenariogen/internal/pipeline"
	"scenariogen/internal/source"
)

const version = "1.0.0"

var (
	// Global flags
	cfgPath string
	verbose bool

	// Generate flags
	pageID     string
	spaceKey   string
	pageTitle  string
	imagePaths []string
	excelPath  string
	excelSheet string
	outPath    string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scengen",
	Short: "scengen - test scenario generation from PRDs, UI images, and impact sheets",
	Long: `scengen turns feature documentation into high-level test scenarios.

It pulls a PRD from Confluence, analyzes UI screenshots, and reads an
impact-areas spreadsheet, merges everything into one context, generates
categorized test scenarios, and exports them as an Excel workbook with an
analysis report.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real env vars win either way.
		_ = godotenv.Load()

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate test scenarios from the configured sources",
	Long: `Runs the full pipeline against the sources you provide. At least one
source is required; missing sources are skipped, and a source that fails to
load is dropped as long as another one survives.

Examples:
  scengen generate --page 123456 --excel impact.xlsx
  scengen generate --space QA --title "Rich Text Editor PRD" --images ui1.png,ui2.png`,
	RunE: runGenerate,
}

var quicktestCmd = &cobra.Command{
	Use:   "quicktest",
	Short: "Run the pipeline against the built-in sample inputs",
	Long: `Exercises every stage, including the real model calls, with a fixed
sample corpus instead of live Confluence, image, and spreadsheet sources.`,
	RunE: runQuickTest,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the scengen version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scengen %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "scengen.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	generateCmd.Flags().StringVar(&pageID, "page", "", "Confluence page ID")
	generateCmd.Flags().StringVar(&spaceKey, "space", "", "Confluence space key (with --title)")
	generateCmd.Flags().StringVar(&pageTitle, "title", "", "Confluence page title (with --space)")
	generateCmd.Flags().StringSliceVar(&imagePaths, "images", nil, "UI image paths")
	generateCmd.Flags().StringVar(&excelPath, "excel", "", "Impact areas workbook path")
	generateCmd.Flags().StringVar(&excelSheet, "sheet", "", "Sheet name (default: first sheet)")
	generateCmd.Flags().StringVar(&outPath, "out", "", "Output workbook path (default: output dir + timestamp)")

	quicktestCmd.Flags().StringVar(&outPath, "out", "", "Output workbook path (default: output dir + timestamp)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(quicktestCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req := pipeline.Request{
		Page:       source.PageLocator{PageID: pageID, SpaceKey: spaceKey, Title: pageTitle},
		ImagePaths: imagePaths,
		ExcelPath:  excelPath,
		ExcelSheet: excelSheet,
	}
	if req.Page.IsZero() && len(req.ImagePaths) == 0 && req.ExcelPath == "" {
		return fmt.Errorf("at least one input source is required (--page, --space/--title, --images, or --excel)")
	}
	return runPipeline(req)
}

func runQuickTest(cmd *cobra.Command, args []string) error {
	return runPipeline(pipeline.Request{QuickTest: true})
}

func runPipeline(req pipeline.Request) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if outPath == "" {
		name := fmt.Sprintf("test_scenarios_%s.xlsx", time.Now().Format("20060102_150405"))
		outPath = filepath.Join(cfg.Output.Dir, name)
	}
	req.OutputPath = outPath

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := buildPipeline(cfg).Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d test scenarios\n", len(result.Scenarios))
	printSummary(result.Summary)
	fmt.Printf("Workbook: %s\n", result.OutputPath)
	if result.ReportPath != "" {
		fmt.Printf("Report:   %s\n", result.ReportPath)
	}
	return nil
}

func buildPipeline(cfg *config.Config) *pipeline.Pipeline {
	client := llm.NewGeminiClientWithConfig(llm.GeminiConfig{
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		Model:           cfg.LLM.Model,
		Timeout:         cfg.GetLLMTimeout(),
		Temperature:     cfg.LLM.Temperature,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
	}, logger)

	return pipeline.New(
		source.NewConfluenceLoader(cfg.Confluence.BaseURL, cfg.Confluence.Username,
			cfg.Confluence.APIToken, cfg.GetConfluenceTimeout(), logger),
		source.NewImageLoader(client, logger),
		source.NewExcelLoader(logger),
		agent.NewCombiner(client, logger),
		agent.NewGenerator(client, logger),
		agent.NewAnalyzer(client, logger),
		export.NewWriter(logger),
		logger,
	)
}

func printSummary(summary agent.SummaryReport) {
	fmt.Println("By category:")
	for _, c := range agent.Categories {
		if n := summary.ByCategory[c]; n > 0 {
			fmt.Printf("  %-15s %d\n", c, n)
		}
	}
	fmt.Println("By priority:")
	for _, p := range agent.Priorities {
		if n := summary.ByPriority[p]; n > 0 {
			fmt.Printf("  %-15s %d\n", p, n)
		}
	}
}
