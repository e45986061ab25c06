package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/review-mate/internal/config"
	"github.com/sevigo/review-mate/internal/core"
)

func main() {
	themeFlag := flag.String("theme", "", "UI theme (cyan, matrix, dracula)")
	listThemes := flag.Bool("list-themes", false, "List all available themes")
	languageFlag := flag.String("language", "", "Language of the code under review")
	flag.Parse()

	if *listThemes {
		fmt.Println("Available themes:")
		for _, theme := range ListThemes() {
			fmt.Printf("  - %s\n", theme)
		}
		os.Exit(0)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	project, err := config.LoadProjectConfig(".")
	if err != nil {
		fmt.Printf("Failed to load project configuration: %v\n", err)
		os.Exit(1)
	}

	var initialCode string
	if path := flag.Arg(0); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("Failed to read %s: %v\n", path, err)
			os.Exit(1)
		}
		initialCode = string(data)
	}

	selectedTheme := *themeFlag
	if selectedTheme == "" {
		selectedTheme = os.Getenv("REVIEW_MATE_THEME")
	}
	if selectedTheme == "" {
		selectedTheme = string(ThemeCyan)
	}

	theme := ThemeName(selectedTheme)
	validTheme := false
	for _, t := range ListThemes() {
		if t == theme {
			validTheme = true
			break
		}
	}
	if !validTheme {
		fmt.Printf("Invalid theme '%s'. Use --list-themes to see available options.\n", theme)
		os.Exit(1)
	}

	language := resolveLanguage(*languageFlag, project, flag.Arg(0))

	session := core.DisconnectedSession()
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		session = core.ConnectedSession(token)
	}

	p := tea.NewProgram(initialModel(cfg, project, theme, language, initialCode, session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

// resolveLanguage picks the language from the flag, the project config, or
// the file extension, falling back to plaintext.
func resolveLanguage(flagValue string, project *config.ProjectConfig, path string) string {
	if flagValue != "" {
		return flagValue
	}
	if project.Language != "" {
		return project.Language
	}
	switch strings.ToLower(filepath.Ext(path)) {
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
	}
	return "plaintext"
}
