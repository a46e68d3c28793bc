package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/modoterra/journalreader/internal/buildinfo"
	"github.com/modoterra/journalreader/pkg/config"
	"github.com/modoterra/journalreader/pkg/core"
	"github.com/modoterra/journalreader/pkg/providers/logs/export"
	"github.com/modoterra/journalreader/pkg/providers/logs/journald"
	"github.com/modoterra/journalreader/pkg/walk"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks errors caused by the command line rather than the journal.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type options struct {
	begin      uint64
	end        uint64
	number     uint64
	directory  string
	from       string
	to         string
	exportFile string
	configPath string
}

// execute runs the command line in args and returns the process exit code.
// Journal output goes to stdout; help, usage and errors go to stderr.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintf(stderr, "%s: %v\n", cmd.Name(), err)
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return 1
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "journalreader [OPTIONS]",
		Short: "Print journal entries as text",
		Long: `journalreader prints systemd journal entries, one per line, framed by the
cursor of the first entry and the cursor of the last position reached.

giving a range conflicts with -n
-b and -f conflict
-e and -t conflict`,
		Version:       fmt.Sprintf("%s (%s) built %s", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, stdout, stderr)
		},
	}
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	f := cmd.Flags()
	f.SortFlags = false
	f.Uint64VarP(&o.begin, "begin", "b", 0, "begin at this epoch")
	f.Uint64VarP(&o.end, "end", "e", 0, "end at this epoch")
	f.StringVarP(&o.directory, "directory", "d", "", "path to journal directory")
	f.Uint64VarP(&o.number, "number", "n", 0, "print the last number entries")
	f.StringVarP(&o.from, "from", "f", "", "print from this cursor")
	f.StringVarP(&o.to, "to", "t", "", "print to this cursor")
	f.StringVar(&o.exportFile, "export-file", "", "read a journalctl -o json export (optionally zstd) instead of the journal; overrides the config directory")
	f.StringVar(&o.configPath, "config", "", "config file (default "+config.DefaultPath+")")
	f.BoolP("help", "h", false, "this help")

	return cmd
}

func (o *options) selection() (walk.Selection, error) {
	begin, err := walk.SecondsToUsec(o.begin)
	if err != nil {
		return walk.Selection{}, fmt.Errorf("begin: %w", err)
	}
	end, err := walk.SecondsToUsec(o.end)
	if err != nil {
		return walk.Selection{}, fmt.Errorf("end: %w", err)
	}
	sel := walk.Selection{
		Begin:      begin,
		End:        end,
		FromCursor: o.from,
		ToCursor:   o.to,
		Tail:       o.number,
	}
	return sel, sel.Validate()
}

func (o *options) run(cmd *cobra.Command, stdout, stderr io.Writer) error {
	sel, err := o.selection()
	if err != nil {
		return usageError{err}
	}
	if o.directory != "" && o.exportFile != "" {
		return usageError{errors.New("-d and --export-file conflict")}
	}

	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(o.configPath, logger)
	if err != nil {
		return err
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	if cmd.Flags().Changed("directory") {
		cfg.Directory = o.directory
	}

	loc, _ := cfg.Location()
	lvl, _ := cfg.Level()
	level.Set(lvl)

	store, err := o.openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore(store, logger)

	stats, err := walk.Run(store, stdout, sel, walk.Options{
		BufferSize: cfg.BufferSize,
		Location:   loc,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	logger.Info("done", "entries", stats.Entries, "reboots", stats.Reboots, "bytes", stats.Bytes)
	return nil
}

// openStore opens the export file if one was given, else the journal. The
// export file takes precedence over a directory from the config file.
func (o *options) openStore(cfg *config.Config, logger *slog.Logger) (core.Store, error) {
	if o.exportFile != "" {
		if cfg.Directory != "" {
			logger.Debug("config directory ignored for export file", "directory", cfg.Directory)
		}
		store, err := export.Open(o.exportFile, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := journald.Open(cfg.Directory, logger)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// closeStore runs after output is written; a failure is logged only.
func closeStore(store core.Store, logger *slog.Logger) {
	if err := store.Close(); err != nil {
		logger.Warn("close store failed", "error", err)
	}
}
