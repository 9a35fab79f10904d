package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/pkg/ui"
	"github.com/postkit/postkit/pkg/workspace"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a postkit workspace",
	Long: `Initialize a postkit workspace in the current directory (or --dir).

This creates:
  - content/    : Your Markdown posts (content_dir in config)
  - .postkit/   : Cache (post index)
  - .gitignore  : Ignores the cache directory
  - config.yaml : Global configuration, if none exists yet`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	// Check if already initialized
	if appWorkspace.Exists() {
		fmt.Println(ui.FormatWarning("Workspace already initialized"))
		fmt.Println(ui.FormatMuted("Content: " + appWorkspace.ContentPath))
		return nil
	}

	if err := appWorkspace.Initialize(); err != nil {
		fmt.Println(ui.FormatError("Failed to initialize workspace"))
		return err
	}

	// Create default config
	if _, err := os.Stat(appWorkspace.ConfigPath); os.IsNotExist(err) {
		if err := appConfig.Save(appWorkspace.ConfigPath); err != nil {
			fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
		} else {
			fmt.Println(ui.FormatSuccess("Config created at " + appWorkspace.ConfigPath))
		}
	}

	if err := ensureGitignore(appWorkspace.RootPath); err != nil {
		fmt.Println(ui.FormatWarning("Failed to update .gitignore: " + err.Error()))
	}

	fmt.Println(ui.FormatSuccess("Workspace initialized!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Content", appWorkspace.RelPath(appWorkspace.ContentPath)))
	fmt.Println(ui.RenderKeyValue("Cache", appWorkspace.RelPath(appWorkspace.CachePath)))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Next steps:"))
	fmt.Println(ui.FormatMuted("  1. Create your first post: postkit new \"My First Post\""))
	fmt.Println(ui.FormatMuted("  2. List posts: postkit list --all"))
	fmt.Println(ui.FormatMuted("  3. Check posts: postkit check"))

	return nil
}

// ensureGitignore adds the cache directory to root/.gitignore once
func ensureGitignore(root string) error {
	path := filepath.Join(root, ".gitignore")
	entry := workspace.CacheDirName + "/"

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return nil
		}
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"
	return os.WriteFile(path, []byte(content), 0644)
}
