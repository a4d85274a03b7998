package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/asciitree/internal/clipboard"
	"github.com/ziadkadry99/asciitree/internal/markup"
	"github.com/ziadkadry99/asciitree/internal/progress"
	"github.com/ziadkadry99/asciitree/internal/tree"
	"github.com/ziadkadry99/asciitree/internal/walker"
)

var (
	renderFormat  string
	renderCopy    bool
	renderExclude []string
	renderNoSort  bool
	renderQuiet   bool
)

var renderCmd = &cobra.Command{
	Use:   "render <dir|file|->",
	Short: "Print a folder or tree text file as an ASCII tree",
	Long: `Renders a directory as an ASCII tree, or normalizes existing tree text
(including the unicode output of the tree command) read from a file or stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var reporter progress.Reporter
		if !renderQuiet {
			reporter = progress.NewReporter(os.Stderr)
		}

		text, res, err := renderSource(ctx, args[0], renderOptions{
			Exclude:      append(append([]string{}, cfg.Ingest.Exclude...), renderExclude...),
			Sort:         cfg.Ingest.Sort && !renderNoSort,
			Placeholders: placeholders(cfg),
			Reporter:     reporter,
			Logger:       log,
			Stdin:        cmd.InOrStdin(),
		})
		if err != nil {
			return err
		}
		if res.Err != nil {
			log.Warn("some directories could not be read", zap.Int("added", res.Added), zap.Error(res.Err))
		}

		out, err := markup.Render(renderFormat, text)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))

		if renderCopy {
			if err := (clipboard.System{}).Copy(out); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "Copied to clipboard")
		}
		return nil
	},
}

// renderOptions configure renderSource.
type renderOptions struct {
	Exclude      []string
	Sort         bool
	Placeholders tree.Placeholders
	Reporter     progress.Reporter
	Logger       *zap.Logger
	Stdin        io.Reader
}

// renderSource produces canonical tree text for src: a directory is walked,
// a file or "-" (stdin) is parsed as tree text.
func renderSource(ctx context.Context, src string, opts renderOptions) (string, walker.Result, error) {
	if src == "-" {
		return parseSource(opts.Stdin, opts.Placeholders)
	}

	info, err := os.Stat(src)
	if err != nil {
		return "", walker.Result{}, err
	}
	if !info.IsDir() {
		f, err := os.Open(src)
		if err != nil {
			return "", walker.Result{}, err
		}
		defer f.Close()
		return parseSource(f, opts.Placeholders)
	}

	wopts := walker.Options{
		Exclude: opts.Exclude,
		Sort:    opts.Sort,
		Logger:  opts.Logger,
	}
	if opts.Reporter != nil {
		opts.Reporter.Start(-1)
		defer opts.Reporter.Finish()
		wopts.OnEntry = progress.Entries(opts.Reporter)
	}

	t, res, err := walker.Build(ctx, src, wopts)
	if err != nil {
		return "", res, err
	}
	t.RootPlaceholder = opts.Placeholders.Root
	t.BranchPlaceholder = opts.Placeholders.Branch
	return t.Export(), res, nil
}

func parseSource(r io.Reader, ph tree.Placeholders) (string, walker.Result, error) {
	t, err := tree.ParseWith(r, ph)
	if err != nil {
		return "", walker.Result{}, fmt.Errorf("reading tree text: %w", err)
	}
	return t.Export(), walker.Result{Added: t.Len() - 1}, nil
}

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", markup.FormatText, "output format: text, markdown or html")
	renderCmd.Flags().BoolVarP(&renderCopy, "copy", "c", false, "also copy the output to the clipboard")
	renderCmd.Flags().StringSliceVarP(&renderExclude, "exclude", "e", nil, "extra glob patterns to skip")
	renderCmd.Flags().BoolVar(&renderNoSort, "no-sort", false, "keep the file system's listing order")
	renderCmd.Flags().BoolVarP(&renderQuiet, "quiet", "q", false, "hide the progress spinner")
	rootCmd.AddCommand(renderCmd)
}
