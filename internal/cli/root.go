package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskboard/internal/api"
	"github.com/idilsaglam/taskboard/internal/board"
	"github.com/idilsaglam/taskboard/internal/config"
	"github.com/idilsaglam/taskboard/internal/logging"
	"github.com/idilsaglam/taskboard/internal/ui"
)

// app holds what every subcommand shares once flags are parsed.
type app struct {
	configPath string
	cfg        *config.Config
}

// NewRootCommand builds the taskboard command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	def := config.Default()

	root := &cobra.Command{
		Use:   "taskboard",
		Short: "A task board with a terminal UI, a browser-facing proxy and a dev backend",
		Long: `taskboard tracks tasks across three columns: Pending, In Progress and Finished.

The UI and the one-shot commands talk to the proxy (/api/todo), which forwards
to the backend task collection.

EXAMPLES:
  taskboard backend                        # local stand-in backend on :7085
  taskboard proxy                          # proxy on :3000
  taskboard ui                             # interactive board
  taskboard add "Buy milk" -d "2 liters"
  taskboard ls --group
  taskboard move 3 done
  taskboard rm 3

CONFIGURATION:
  defaults < $HOME/.taskboard/config.yaml < ./.taskboard/config.yaml
           < TASKBOARD_* environment variables < flags
  e.g. TASKBOARD_BACKEND_URL, TASKBOARD_PROXY_ADDR, TASKBOARD_UI_VIEW, TASKBOARD_DEBUG`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: a.load,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &usageError{msg: "unknown subcommand: " + args[0], hint: "run `taskboard --help` for the list"}
			}
			_ = cmd.Help()
			return &usageError{}
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: global then project .taskboard/config.yaml)")
	flags.String("backend-url", def.Backend.URL, "backend task collection URL (overrides TASKBOARD_BACKEND_URL)")
	flags.String("proxy-url", def.Proxy.URL, "proxy base URL used by the UI and one-shot commands")
	flags.String("proxy-addr", def.Proxy.Addr, "address the proxy listens on")
	flags.String("view", def.UI.View, "initial UI view: board or list")
	flags.Bool("debug", false, "verbose logging to stderr")

	root.AddCommand(
		a.newProxyCommand(),
		a.newBackendCommand(),
		a.newUICommand(),
		a.newListCommand(),
		a.newAddCommand(),
		a.newMoveCommand(),
		a.newRemoveCommand(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	l := config.NewLoader()
	if err := l.BindFlags(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := l.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.SetDebug(cfg.Debug)
	ui.SetTheme(cfg.UI.Theme)
	logging.Debugf("config: proxy=%s backend=%s view=%s", cfg.Proxy.URL, cfg.Backend.URL, cfg.UI.View)
	return nil
}

// store builds a board store talking to the configured proxy.
func (a *app) store() *board.Store {
	// the view was checked by Validate
	view, _ := board.ParseViewMode(a.cfg.UI.View)
	client := api.New(a.cfg.Proxy.URL)
	return board.NewStore(client, board.Options{
		View:                  view,
		ClearFinishedOnReopen: a.cfg.UI.ClearFinishedOnReopen,
	})
}
