package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/phpscope/internal/export"
	"github.com/mvp-joe/phpscope/internal/scan"
)

var watchFormatFlag string

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Re-scan a PHP file whenever it changes",
	Long: `Watch scans the file once, then keeps watching it and re-renders the
report after every save. Each rescan runs against a fresh namespace, so
edits that add or remove declarations are fully reflected.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchFormatFlag, "format", "f", "text", "output format: text or json")
}

func runWatch(cmd *cobra.Command, args []string) error {
	target := args[0]
	if watchFormatFlag != "text" && watchFormatFlag != "json" {
		return fmt.Errorf("unknown format %q (expected text or json)", watchFormatFlag)
	}

	if err := renderOnce(target); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors that write via
	// rename-and-replace would otherwise drop the watch after the first save.
	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	const debounce = 200 * time.Millisecond
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	log.Printf("Watching %s for changes...", target)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != absTarget {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			if err := renderOnce(target); err != nil {
				// Keep watching: a half-saved file parses again on next save.
				log.Printf("phpscope: rescan failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("phpscope: watch error: %v", err)
		case <-sigCh:
			return nil
		}
	}
}

func renderOnce(target string) error {
	report, err := scan.ExportFile(target)
	if err != nil {
		return err
	}
	if watchFormatFlag == "json" {
		out, err := export.JSON(report)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}
	fmt.Print(export.Text(report))
	return nil
}
