package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/review-mate/internal/config"
	"github.com/sevigo/review-mate/internal/core"
	"github.com/sevigo/review-mate/internal/llm"
	"github.com/sevigo/review-mate/internal/logger"
)

var (
	reviewLanguage string
	verbose        bool
)

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgWhite)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Run an AI code review on a local file",
	Long: `Run an AI code review on a local file.

The review command sends the file's contents to the configured generative
model and prints the suggested improvement, its category, and the reasoning.

The language is inferred from the file extension; override it with --language
or set it in ` + config.ProjectConfigFileName + `.

Examples:
  review-mate review main.go
  review-mate review --language python scripts/migrate`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().StringVarP(&reviewLanguage, "language", "l", "", "Language of the code under review")
	reviewCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output with timing information")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	path := args[0]

	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	language, err := resolveLanguage(path)
	if err != nil {
		return err
	}

	titleColor.Println("Review-Mate - Code Review")
	dimColor.Printf("   Target: %s (%s)\n\n", path, language)

	reviewer, err := newReviewer(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	fmt.Println("Reviewing...")
	suggestion, err := reviewer.Review(ctx, core.ReviewRequest{
		Code:     string(code),
		Language: language,
	})
	if err != nil {
		return fmt.Errorf("review failed: %w\n\nTip: Check that GEMINI_API_KEY is set and valid", err)
	}

	if verbose {
		dimColor.Printf("Total time: %s\n", time.Since(start).Round(time.Millisecond))
	}

	printSuggestion(suggestion)
	return nil
}

// newReviewer builds a Reviewer from the server configuration. CLI output
// stays clean by sending logs to stderr at warn level unless --verbose.
func newReviewer(ctx context.Context) (llm.Reviewer, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := slog.LevelWarn
	if verbose {
		level = cfg.LogLevel
	}
	log := logger.New(logger.Options{Level: level, Format: cfg.LogFormat}, io.Writer(os.Stderr))

	model, err := llm.NewModel(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	return llm.NewReviewer(model, log), nil
}

// resolveLanguage picks the language from the flag, the project config, or
// the file extension, in that order.
func resolveLanguage(path string) (string, error) {
	if reviewLanguage != "" {
		return reviewLanguage, nil
	}

	project, err := config.LoadProjectConfig(".")
	if err != nil {
		return "", err
	}
	if project.Language != "" {
		return project.Language, nil
	}

	if lang := languageForExtension(filepath.Ext(path)); lang != "" {
		return lang, nil
	}
	return "", fmt.Errorf("cannot infer language for %s; pass --language", path)
}

func languageForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".go":
		return "go"
	case ".js", ".jsx":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".py":
		return "python"
	case ".rb":
		return "ruby"
	case ".java":
		return "java"
	case ".rs":
		return "rust"
	case ".c", ".h":
		return "c"
	case ".cpp", ".cc", ".hpp":
		return "cpp"
	case ".cs":
		return "csharp"
	case ".php":
		return "php"
	case ".sh":
		return "shell"
	default:
		return ""
	}
}

func printSuggestion(s *core.ReviewSuggestion) {
	separator := strings.Repeat("=", 60)

	fmt.Println()
	titleColor.Println(separator)
	titleColor.Println("REVIEW SUGGESTION")
	titleColor.Println(separator)
	fmt.Println()

	printCategoryBadge(s.Category)
	fmt.Println()
	fmt.Println()
	infoColor.Println(s.Explanation)
	fmt.Println()

	boldColor.Println("Improved code:")
	dimColor.Println(strings.Repeat("-", 40))
	fmt.Println(s.ImprovedCode)
	dimColor.Println(strings.Repeat("-", 40))
}

func printCategoryBadge(category core.Category) {
	switch category {
	case core.CategorySecurity:
		color.New(color.BgRed, color.FgWhite, color.Bold).Printf(" %s ", category)
	case core.CategoryBugFix:
		color.New(color.BgHiRed, color.FgWhite).Printf(" %s ", category)
	case core.CategoryBetterPerformance:
		color.New(color.BgYellow, color.FgBlack).Printf(" %s ", category)
	case core.CategoryBestPractices, core.CategoryReadability:
		color.New(color.BgGreen, color.FgWhite).Printf(" %s ", category)
	default:
		color.New(color.BgWhite, color.FgBlack).Printf(" %s ", category)
	}
}
