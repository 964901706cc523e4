package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gic-cinemas/config"
	"gic-cinemas/logger"
	"gic-cinemas/seating"
	"gic-cinemas/service"
	"gic-cinemas/store"
	"gic-cinemas/tui"
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Name    string
	Version string
	Commit  string
}

// env bundles what every command needs: settings, the ledger store and a
// logger.
type env struct {
	cfg   config.Config
	store store.Store
	log   *logger.Logger
}

func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Warn("STORE", fmt.Sprintf("close store: %v", err))
		}
	}
	_ = e.log.Close()
}

// openEnv loads the configuration and opens the store. console receives a
// coloured copy of log lines when GIC_LOG_CONSOLE is set.
func openEnv(ctx context.Context, console io.Writer) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	opts := logger.Options{Dir: cfg.LogDir}
	if cfg.LogConsole {
		opts.Console = console
	}
	log, err := logger.New(opts)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg)
	if err != nil {
		_ = log.Close()
		return nil, err
	}
	log.LogStore("OPEN", cfg.Store, "store ready")
	return &env{cfg: cfg, store: st, log: log}, nil
}

func newRootCmd(info BuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:   "gic",
		Short: "GIC Cinemas booking terminal",
		Long:  `Define a movie and its seating map, book tickets and check bookings, all from the terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd)
		},
		SilenceUsage: true,
	}
	root.AddCommand(
		newBookingsCmd(),
		newShowCmd(),
		newResetCmd(),
		newVersionCmd(info),
	)
	return root
}

func runTUI(cmd *cobra.Command) error {
	// Console logging would draw over the alternate screen.
	e, err := openEnv(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer e.Close()

	policy, err := seating.PolicyByName(e.cfg.Seating)
	if err != nil {
		return err
	}
	app := tui.New(tui.Options{
		Store:    e.store,
		Booker:   service.NewBooker(policy, e.log),
		Advanced: seating.ContiguousPolicy{},
		Logger:   e.log,
	})
	final, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return err
	}
	if tui.Exited(final) {
		fmt.Fprintln(cmd.OutOrStdout(), "\n"+tui.Farewell())
	}
	return nil
}

func Execute(info BuildInfo) {
	root := newRootCmd(info)
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
