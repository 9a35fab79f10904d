package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/internal/logging"
	"github.com/postkit/postkit/pkg/ui"
)

var (
	watchQuiet   bool
	watchNoIndex bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check and reindex posts as they change",
	Long: `Watch the content directory and, whenever posts are created, saved,
renamed or deleted:

  - check the changed posts and print any problems
  - rebuild the post index

Changes are debounced (watch_debounce_ms in config). Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Only print problems")
	watchCmd.Flags().BoolVar(&watchNoIndex, "no-index", false, "Don't rebuild the index")
}

// changeSet collects the post files touched since the last flush
type changeSet struct {
	mu    sync.Mutex
	files map[string]bool
}

func (c *changeSet) add(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.files == nil {
		c.files = map[string]bool{}
	}
	c.files[name] = true
}

func (c *changeSet) drain() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.files))
	for name := range c.files {
		names = append(names, name)
	}
	c.files = nil
	sort.Strings(names)
	return names
}

// isWatchedPost filters editor swap files and other noise
func isWatchedPost(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") || strings.HasSuffix(base, "~") {
		return false
	}
	return domain.IsPostFile(base)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(getContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.Get("watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(appWorkspace.ContentPath); err != nil {
		return fmt.Errorf("failed to watch content directory: %w", err)
	}

	if !watchQuiet {
		fmt.Println(ui.FormatInfo(ui.IconWatch + " Watching " + appWorkspace.RelPath(appWorkspace.ContentPath)))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	var (
		pending       changeSet
		debounceTimer *time.Timer
		flushMu       sync.Mutex
	)
	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond

	flush := func() {
		flushMu.Lock()
		defer flushMu.Unlock()
		processChanges(ctx, pending.drain())
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isWatchedPost(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			log.Debug("change detected", "file", event.Name, "op", event.Op.String())
			pending.add(filepath.Base(event.Name))

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, flush)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", "error", err)

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			if !watchQuiet {
				fmt.Println()
				fmt.Println(ui.FormatMuted("Watcher stopped"))
			}
			return nil
		}
	}
}

// processChanges checks the changed files that still exist and reindexes
func processChanges(ctx context.Context, filenames []string) {
	if len(filenames) == 0 {
		return
	}

	stamp := ui.FormatMuted(time.Now().Format("15:04:05"))
	req := checkRequestFromConfig()

	for _, filename := range filenames {
		content, err := os.ReadFile(appWorkspace.GetPostPath(filename))
		if err != nil {
			if !watchQuiet {
				fmt.Printf("%s %s\n", stamp, ui.FormatMuted(filename+" removed"))
			}
			continue
		}

		issues := checkService.CheckContent(filename, content, req)
		if len(issues) == 0 {
			if !watchQuiet {
				fmt.Printf("%s %s\n", stamp, ui.FormatSuccess(filename))
			}
			continue
		}
		fmt.Printf("%s %s\n", stamp, ui.FormatWarning(filename))
		printIssues(issues)
	}

	if watchNoIndex {
		return
	}

	resp, err := indexerService.Execute(ctx, services.ReindexRequest{})
	if err != nil {
		fmt.Println(ui.FormatError("Reindex failed: " + err.Error()))
		return
	}
	if !watchQuiet {
		fmt.Printf("%s %s\n", stamp, ui.FormatMuted(fmt.Sprintf("index updated (%d posts)", resp.TotalPosts)))
	}
}
