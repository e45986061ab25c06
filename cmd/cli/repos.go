package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevigo/review-mate/internal/github"
	"github.com/sevigo/review-mate/internal/logger"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List the GitHub repositories your token can access",
	Long: `List the GitHub repositories your token can access.

Examples:
  review-mate repos --github-token ghp_xxx
  RM_GITHUB_TOKEN=ghp_xxx review-mate repos`,
	Args: cobra.NoArgs,
	RunE: runRepos,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(reposCmd)
}

func runRepos(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	token := viper.GetString("GITHUB_TOKEN")
	if token == "" {
		return fmt.Errorf("GITHUB_TOKEN is not set\n\nTip: pass --github-token or set RM_GITHUB_TOKEN")
	}

	log := logger.New(logger.Options{Level: slog.LevelWarn}, io.Writer(os.Stderr))
	client := github.NewTokenClient(ctx, token, log)

	repos, err := client.ListRepositories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}

	if len(repos) == 0 {
		dimColor.Println("No repositories found.")
		return nil
	}

	titleColor.Printf("Repositories (%d)\n\n", len(repos))
	for _, repo := range repos {
		boldColor.Printf("%s", repo.FullName)
		dimColor.Printf("  (default: %s)\n", repo.DefaultBranch)
	}
	return nil
}
