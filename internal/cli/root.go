// Package cli wires the pathgrip commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pathgrip/internal/config"
	"pathgrip/internal/discovery"
	"pathgrip/internal/eventbus"
	"pathgrip/internal/logging"
	"pathgrip/internal/logic"
	"pathgrip/internal/provider"
	"pathgrip/internal/ui"
)

// Exit codes
const (
	ExitSubmitted = 0
	ExitCancelled = 1
	ExitError     = 2
)

// ErrCancelled is returned when the prompt was left without submitting
var ErrCancelled = errors.New("cancelled")

type rootOptions struct {
	dir        string
	configPath string
	value      string
	output     string // resolved against the starting directory
	copy       bool
	debug      bool
}

// Streams are the standard streams of a command run
type Streams struct {
	In  *os.File
	Out *os.File
	Err *os.File
}

// DefaultStreams are the process streams
func DefaultStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// NewRootCmd builds the command tree
func NewRootCmd(streams Streams) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "pathgrip [dir]",
		Short: "Type file paths with autocomplete",
		Long: `pathgrip - a prompt for lists of file paths
  - suggestions for the path under the cursor while you type
  - paths separated by commas or new lines
  - the submitted text is printed on stdout`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && opts.dir == "" {
				opts.dir = args[0]
			}
			return runTUI(cmd.Context(), opts, streams)
		},
	}

	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	flags := cmd.Flags()
	flags.StringVarP(&opts.dir, "dir", "d", "", "directory to index (default: current directory)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file")
	flags.StringVar(&opts.value, "value", "", "initial text")
	flags.StringVarP(&opts.output, "output", "o", "", "write the submitted text to this file instead of stdout")
	flags.BoolVar(&opts.copy, "copy", false, "copy the submitted text to the clipboard")
	flags.BoolVar(&opts.debug, "debug", false, "log at debug level")

	cmd.AddCommand(newSearchCmd(streams))
	cmd.AddCommand(newVersionCmd(streams))

	return cmd
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	streams := DefaultStreams()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd(streams).ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitSubmitted
	case errors.Is(err, ErrCancelled):
		return ExitCancelled
	default:
		fmt.Fprintf(streams.Err, "pathgrip: %v\n", err)
		return ExitError
	}
}

// absPath anchors a user supplied path to the starting directory
func absPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	return filepath.Abs(p)
}

// enterDir resolves dir and makes it the working directory so that
// indexed paths are relative to it.
func enterDir(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	if err := os.Chdir(abs); err != nil {
		return "", fmt.Errorf("enter %s: %w", dir, err)
	}
	return abs, nil
}

func runTUI(ctx context.Context, opts *rootOptions, streams Streams) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	explicit, err := absPath(opts.configPath)
	if err != nil {
		return err
	}
	if opts.output, err = absPath(opts.output); err != nil {
		return err
	}
	dir, err := enterDir(opts.dir)
	if err != nil {
		return err
	}

	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigService()
	cfg, configPath, err := config.Resolve(configSvc, ".", explicit)
	if err != nil {
		return err
	}

	logFile, err := logging.Setup(cfg.Log, opts.debug)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.Info("starting", "dir", dir, "config", configPath, "roots", cfg.Roots)

	store := logic.NewMemoryFileStore()
	unbind := discovery.BindStore(bus, store)
	defer unbind()

	discoverySvc := discovery.NewDiscoveryService(bus, cfg.Index)
	defer discoverySvc.StopScan()

	p, err := provider.New(cfg.Search, ".", store)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, bus, cfg, p, nil)
	model.SetValue(opts.value)

	// render on stderr when stdout is captured, e.g. $(pathgrip)
	var output io.Writer = streams.Out
	if !term.IsTerminal(int(streams.Out.Fd())) {
		output = streams.Err
	}
	programOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(streams.In),
		tea.WithOutput(output),
	}
	if cfg.UISettings.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	program := tea.NewProgram(model, programOpts...)
	model.SetProgram(program)

	forward := func(e eventbus.DomainEvent) {
		program.Send(ui.EventMsg{Event: e})
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventScanStarted,
		eventbus.EventScanCompleted,
		eventbus.EventIndexChanged,
		eventbus.EventFileCreated,
		eventbus.EventFileRemoved,
		eventbus.EventError,
		eventbus.EventConfigLoaded,
	} {
		unsub := bus.Subscribe(t, forward)
		defer unsub()
	}
	if configPath != "" {
		bus.Publish(eventbus.ConfigLoadedEvent{Path: configPath})
	}

	if err := discoverySvc.StartScan(ctx, cfg.Roots); err != nil {
		return err
	}

	if cfg.Index.Watch {
		watcher := discovery.NewWatcher(bus, cfg.Index)
		if err := watcher.Start(ctx, cfg.Roots); err != nil {
			// completion still works from the initial scan
			log.Warn("file watcher unavailable", "err", err)
		}
		defer watcher.Close()
	}

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run prompt: %w", err)
	}

	st := model.State()
	if !st.Submitted {
		return ErrCancelled
	}
	return deliver(st.Result, opts, streams)
}

// deliver hands the submitted text to the caller
func deliver(text string, opts *rootOptions, streams Streams) error {
	if opts.copy {
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
	}
	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text+"\n"), 0644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		return nil
	}
	_, err := fmt.Fprintln(streams.Out, text)
	return err
}
