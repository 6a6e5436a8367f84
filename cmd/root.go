// Package cmd wires configuration, storage and gateways into the cobra
// command tree. Running the binary without a subcommand opens the TUI.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"venuespace-cli/config"
	"venuespace-cli/service"
	"venuespace-cli/session"
	"venuespace-cli/store"
	"venuespace-cli/tui"
)

const appName = "venuespace"

var (
	configPath string
	verbose    bool
	startRoute string
)

// app is everything a command needs after start-up.
type app struct {
	cfg     config.Config
	log     *logrus.Logger
	client  *service.Client
	session *session.Manager
	audit   *store.AuditLog

	closers []io.Closer
}

// openApp loads the config and opens the log file, the session and,
// unless disabled, the audit log.
func openApp(withAudit bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, logFile, err := cfg.NewLogger(verbose)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:     cfg,
		log:     log,
		client:  service.NewClient(),
		closers: []io.Closer{logFile},
	}

	if venues, err := store.LoadHostVenues(); err != nil {
		log.WithError(err).Warn("could not restore host venues")
	} else {
		a.client.RestoreHostVenues(venues)
	}

	a.session = session.NewManager(nil, log)
	if err := a.session.Init(); err != nil {
		a.Close()
		return nil, err
	}

	if withAudit && !cfg.Audit.Disabled {
		path, err := cfg.AuditPath()
		if err != nil {
			a.Close()
			return nil, err
		}
		audit, err := store.OpenAudit(path)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		a.audit = audit
		a.closers = append(a.closers, audit)
	}

	log.WithFields(logrus.Fields{
		"demo": cfg.Demo,
		"city": cfg.City,
	}).Debug("started")
	return a, nil
}

func (a *app) Close() {
	if a.session != nil {
		a.session.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

func (a *app) tuiDeps() tui.Deps {
	deps := tui.Deps{
		Client:   a.client,
		Session:  a.session,
		Log:      a.log,
		Windows:  a.cfg.BookingWindows(),
		Gateways: a.cfg.Gateways(a.log),
		City:     a.cfg.City,
	}
	if a.audit != nil {
		deps.Audit = a.audit
	}
	return deps
}

func newRootCmd(version, commit string) *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Find and book event venues from the terminal",
		Long: `Browse venues, book a time slot and follow the request through host
confirmation and payment, all from the terminal.`,
		Version:       versionString(version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = tea.NewProgram(tui.New(a.tuiDeps(), startRoute), tea.WithAltScreen()).Run()
			return err
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/venuespace/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	root.Flags().StringVar(&startRoute, "route", "/", "screen to open first, e.g. /catalog or /venue/1")

	root.AddCommand(
		newCatalogCmd(),
		newQuoteCmd(),
		newHostCmd(),
		newSimulateCmd(),
		newHistoryCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newVersionCmd(version, commit),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(version, commit string) int {
	if err := newRootCmd(version, commit).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if service.IsValidation(err) || errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

var errUsage = errors.New("usage")

func versionString(version, commit string) string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return version
}

func newVersionCmd(version, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of VenueSpace CLI",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, versionString(version, commit))
		},
	}
}
