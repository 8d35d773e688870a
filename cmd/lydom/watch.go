package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lydom/internal/config"
	"lydom/internal/logging"
	"lydom/lang/lily"
	"lydom/tokens"
)

var watchConfigPath string

// watchCmd keeps an element tree synchronized with a file on disk,
// rebuilding incrementally on every change notification.
var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a notation file and rebuild its tree incrementally",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchConfigPath, "config", "", "Optional watch config file (JSON or YAML)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	cfg, err := config.Load(watchConfigPath)
	if err != nil {
		return err
	}
	if cfg.Language != "lily" {
		return fmt.Errorf("unknown language %q", cfg.Language)
	}
	log := logging.Category(logger, logging.CategoryWatch)

	source, tree, root, builder, err := openFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory: editors replace files on save, which drops
	// a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	var debounce *time.Timer
	rebuild := make(chan struct{}, 1)
	trigger := func() {
		if debounce != nil {
			debounce.Stop()
		}
		debounce = time.AfterFunc(cfg.DebounceInterval(), func() {
			select {
			case rebuild <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			trigger()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))

		case <-rebuild:
			next, err := os.ReadFile(path)
			if err != nil {
				log.Warn("rereading file", zap.Error(err))
				continue
			}
			change, changed := tokens.Diff(source, next)
			if !changed {
				continue
			}
			newTree := lily.Parse(next)
			start := time.Now()
			newRoot, err := builder.Update(root, tree, newTree, change)
			if err != nil {
				log.Error("rebuild failed", zap.Error(err))
				continue
			}
			log.Info("rebuilt",
				zap.Int("change_start", change.Start),
				zap.Int("delta", change.Delta()),
				zap.Duration("took", time.Since(start)))
			fmt.Fprintf(cmd.OutOrStdout(), "rebuilt %s (%+d bytes)\n", filepath.Base(path), change.Delta())
			source, tree, root = next, newTree, newRoot

		case <-sig:
			return nil
		}
	}
}
