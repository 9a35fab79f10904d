package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/adapters/chart"
	"github.com/postkit/postkit/internal/adapters/repository"
	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/internal/logging"
	"github.com/postkit/postkit/pkg/config"
	"github.com/postkit/postkit/pkg/ui"
	"github.com/postkit/postkit/pkg/workspace"
)

var (
	// Global flags
	flagDir     string
	flagVerbose bool

	appWorkspace *workspace.Workspace
	appConfig    *config.Config

	postRepo *repository.FileRepository

	// Services
	createPostService *services.CreatePostService
	listService       *services.ListService
	checkService      *services.CheckService
	metaService       *services.MetaService
	formatService     *services.FormatService
	indexerService    *services.IndexerService
	grepService       *services.GrepService
	importService     *services.ImportService
	statsService      *services.StatsService
)

// commands that work without a content directory
var noWorkspaceCommands = map[string]bool{
	"init":       true,
	"version":    true,
	"config":     true,
	"help":       true,
	"completion": true,
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "postkit",
	Short: "postkit - a Markdown blog content manager",
	Long: ui.StyleTitle.Render("postkit") + " - Markdown blog content manager\n\n" +
		"Manage Markdown posts with TOML front matter: create, list, check,\n" +
		"format and publish them without touching the front matter by hand.",
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDir, "dir", "C", "", "Workspace root (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(unpublishCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(grepCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads config and wires repositories and services
func initializeApp(cmd *cobra.Command, args []string) error {
	// 1. Configuration
	configPath, err := workspace.DefaultConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	appConfig = cfg

	// 2. Logging and theme
	level := cfg.LogLevel
	if flagVerbose {
		level = "debug"
	}
	logging.Configure(level)
	ui.SetTheme(cfg.ColorTheme)

	// 3. Workspace
	ws, err := workspace.New(flagDir, cfg.ContentDir)
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}
	appWorkspace = ws

	logging.Get("cmd").Debug("workspace resolved",
		"root", ws.RootPath, "content", ws.ContentPath, "config", configPath)

	if noWorkspaceCommands[topLevelName(cmd)] {
		return nil
	}

	if !appWorkspace.Exists() {
		fmt.Println(ui.FormatError("No content directory at " + appWorkspace.ContentPath))
		fmt.Println(ui.FormatInfo("Run 'postkit init' to create it"))
		return fmt.Errorf("workspace not initialized")
	}

	wireServices()
	return nil
}

func wireServices() {
	postRepo = repository.NewFileRepository(appWorkspace, appConfig.MaxWorkers)

	createPostService = services.NewCreatePostService(postRepo)
	listService = services.NewListService(postRepo)
	checkService = services.NewCheckService(postRepo)
	metaService = services.NewMetaService(postRepo)
	formatService = services.NewFormatService(postRepo)
	indexerService = services.NewIndexerService(postRepo, appWorkspace.IndexPath())
	grepService = services.NewGrepService(appWorkspace.ContentPath, appConfig.MaxWorkers)
	importService = services.NewImportService(createPostService)
	statsService = services.NewStatsService(indexerService, chart.NewEChartsRenderer(""))
}

// topLevelName returns the name of the root's child that cmd belongs to,
// so "config show" is treated like "config"
func topLevelName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
