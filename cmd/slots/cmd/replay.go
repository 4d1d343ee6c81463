package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/slots/cmd/slots/internal/script"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

func (c *cli) newReplayCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "replay <script.yaml>...",
		Short: "Replay YAML event scripts headlessly",
		Long: `Replay recorded UI events against the demo components and check the
expectations in each script.

Every run prints the number of steps and a digest of the final cell values;
identical runs print identical digests. With --watch the scripts are replayed
again whenever they change, until interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := script.NewRunner(c.logger, c.cfg.SchedulerOptions()...)
			out := cmd.OutOrStdout()

			var failed int
			for _, path := range args {
				if err := replayFile(out, runner, path); err != nil {
					failed++
				}
			}
			if watch {
				return c.watch(cmd.Context(), out, runner, args)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scripts failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Replay scripts again when they change")
	return cmd
}

func replayFile(out io.Writer, runner *script.Runner, path string) error {
	s, err := script.Load(path)
	if err == nil {
		var res *script.Result
		if res, err = runner.Run(s); err == nil {
			fmt.Fprintf(out, "ok    %-24s steps=%-3d digest=%016x\n", res.Script, res.Steps, res.Digest)
			return nil
		}
	}
	fmt.Fprintf(out, "FAIL  %s\n      %v\n", path, err)
	return err
}

// watch replays scripts when their files change. Parent directories are
// watched so that editors that save by rename are noticed too.
func (c *cli) watch(ctx context.Context, out io.Writer, runner *script.Runner, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	tracked := make(map[string]string, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		tracked[abs] = path
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}
	c.logger.Info("watching scripts", zap.Int("count", len(paths)))

	pending := make(map[string]bool)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path, ok := tracked[filepath.Clean(event.Name)]
			if !ok || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			c.logger.Debug("script changed", zap.String("path", path), zap.Stringer("op", event.Op))
			pending[path] = true
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			for path := range pending {
				_ = replayFile(out, runner, path)
			}
			clear(pending)
		}
	}
}
