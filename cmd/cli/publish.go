package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevigo/review-mate/internal/config"
	"github.com/sevigo/review-mate/internal/core"
	"github.com/sevigo/review-mate/internal/github"
	"github.com/sevigo/review-mate/internal/logger"
)

var (
	publishOwner    string
	publishRepo     string
	publishFilePath string
)

var publishCmd = &cobra.Command{
	Use:   "publish [file]",
	Short: "Review a local file and open a pull request with the suggestion",
	Long: `Review a local file and open a pull request with the suggestion.

The publish command runs an AI review of the file, then performs the same
choreography as the web client: it creates a working branch off main, commits
the improved code, and opens a pull request with the explanation as its body.

Owner, repository, and target path default to the values in ` + config.ProjectConfigFileName + `;
the target path falls back to the local file's path.

Examples:
  review-mate publish main.go --owner octocat --repo hello-world
  review-mate publish src/app.js --owner octocat --repo hello-world --path src/app.js`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	publishCmd.Flags().StringVar(&publishOwner, "owner", "", "Repository owner")
	publishCmd.Flags().StringVar(&publishRepo, "repo", "", "Repository name")
	publishCmd.Flags().StringVar(&publishFilePath, "path", "", "Path of the file to replace, relative to the repository root")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	token := viper.GetString("GITHUB_TOKEN")
	if token == "" {
		return fmt.Errorf("GITHUB_TOKEN is not set\n\nTip: pass --github-token or set RM_GITHUB_TOKEN")
	}

	code, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	language, err := resolveLanguage(args[0])
	if err != nil {
		return err
	}

	project, err := config.LoadProjectConfig(".")
	if err != nil {
		return err
	}
	owner := firstNonEmpty(publishOwner, project.Owner)
	repo := firstNonEmpty(publishRepo, project.Repo)
	path := firstNonEmpty(publishFilePath, project.FilePath, args[0])
	if owner == "" || repo == "" {
		return fmt.Errorf("owner and repo are required; pass --owner/--repo or set them in %s", config.ProjectConfigFileName)
	}

	titleColor.Println("Review-Mate - Publish")
	dimColor.Printf("   Target: %s/%s:%s (%s)\n\n", owner, repo, path, language)

	boldColor.Println("[1/2] Reviewing...")
	reviewer, err := newReviewer(ctx)
	if err != nil {
		return err
	}
	suggestion, err := reviewer.Review(ctx, core.ReviewRequest{
		Code:     string(code),
		Language: language,
	})
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}
	printSuggestion(suggestion)

	boldColor.Println("\n[2/2] Opening pull request...")
	log := logger.New(logger.Options{Level: slog.LevelWarn}, io.Writer(os.Stderr))
	publisher := github.NewPublisher(log)

	pr, err := publisher.Publish(ctx, github.PublishRequest{
		AccessToken:  token,
		Owner:        owner,
		Repo:         repo,
		FilePath:     path,
		ImprovedCode: suggestion.ImprovedCode,
		Category:     string(suggestion.Category),
		Explanation:  suggestion.Explanation,
	})
	if err != nil {
		errorColor.Printf("Publish failed: %v\n", err)
		return err
	}

	successColor.Printf("Pull request #%d opened\n", pr.Number)
	infoColor.Printf("   %s\n", pr.URL)
	dimColor.Printf("   branch: %s\n", pr.Branch)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
