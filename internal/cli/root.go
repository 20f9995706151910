// Package cli wires configuration, logging and the desktop into the
// groupsend command.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	groupsend "github.com/rpdg/groupsend"
	"github.com/rpdg/groupsend/internal/appctl"
	"github.com/rpdg/groupsend/internal/calibrate"
	"github.com/rpdg/groupsend/internal/clock"
	"github.com/rpdg/groupsend/internal/config"
	"github.com/rpdg/groupsend/internal/input"
	"github.com/rpdg/groupsend/internal/logging"
	"github.com/rpdg/groupsend/internal/workflow"
	"github.com/rpdg/groupsend/screen"
)

// Desktop is everything the command needs from the OS.
type Desktop interface {
	appctl.Windows
	appctl.Launcher
	workflow.Mouse
	calibrate.Pointer
	input.Keyboard
	screen.Capturer
	VirtualBounds() screen.Rect
	Monitors() ([]screen.Monitor, error)
}

var _ Desktop = (*groupsend.Desktop)(nil)

type Env struct {
	Desktop   Desktop
	Clipboard input.Clipboard
	Clock     clock.Clock
	Stdout    io.Writer
	Stderr    io.Writer
}

// DefaultEnv is the live desktop with the real clock.
func DefaultEnv() *Env {
	return &Env{
		Desktop:   groupsend.NewDesktop(),
		Clipboard: groupsend.SystemClipboard{},
		Clock:     clock.Real{},
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

type options struct {
	calibrate  bool
	debug      bool
	configPath string
	logFile    string
}

// app carries per-invocation state between cobra hooks and Main.
type app struct {
	env    *Env
	opts   options
	log    zerolog.Logger
	closer io.Closer
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
		a.closer = nil
	}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groupsend",
		Short: "Post a message into a desktop chat group",
		Long: `groupsend activates the chat client, searches for the configured group and
types the configured message into its input box. The message is only sent
when auto_send is enabled in the configuration.

Run with --calibrate once to record the search box position for screens
where the search icon templates do not match.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.calibrate {
				return a.runCalibrate()
			}
			return a.runWorkflow()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(a.env.Stdout)
	cmd.SetErr(a.env.Stderr)

	flags := cmd.PersistentFlags()
	flags.BoolVar(&a.opts.calibrate, "calibrate", false, "Record the search box position from the mouse pointer")
	flags.BoolVar(&a.opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&a.opts.configPath, "config", "", "Configuration file (default ./config.yaml, then $XDG_CONFIG_HOME/groupsend/config.yaml)")
	flags.StringVar(&a.opts.logFile, "log-file", logging.DefaultFile, `Log file, "-" to disable`)

	cmd.AddCommand(a.probeCmd())
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	log, closer, _ := logging.New(logging.Options{
		Debug:   a.opts.debug,
		File:    a.opts.logFile,
		Console: a.env.Stderr,
	})
	a.log, a.closer = log, closer

	b := a.env.Desktop.VirtualBounds()
	a.log.Info().
		Str("command", cmd.Name()).
		Str("os", runtime.GOOS).
		Str("arch", runtime.GOARCH).
		Str("go", runtime.Version()).
		Int("screenWidth", b.Width()).
		Int("screenHeight", b.Height()).
		Bool("debug", a.opts.debug).
		Msg("Starting groupsend")
	return nil
}

func (a *app) store() *config.Store {
	path := config.ResolvePath(a.opts.configPath)
	return config.NewStore(path, logging.Component(a.log, "config"))
}

func (a *app) runCalibrate() error {
	defer logging.LogOperationStart(a.log, "calibrate")()
	store := a.store()
	// The configuration has to be readable before calibrating.
	if _, err := store.Load(); err != nil {
		return err
	}
	c := calibrate.New(a.env.Desktop, store, a.env.Clock, a.env.Stdout, logging.Component(a.log, "calibrate"))
	_, err := c.Run()
	return err
}

func (a *app) runWorkflow() error {
	defer logging.LogOperationStart(a.log, "workflow")()
	cfg, err := a.store().Load()
	if err != nil {
		return err
	}
	rep, err := a.runner(cfg).Run()
	if err != nil {
		return err
	}
	for _, s := range rep.Fallbacks() {
		a.log.Warn().
			Str("run_id", rep.RunID).
			Str("step", string(s.Step)).
			Str("strategy", string(s.Strategy)).
			Stringer("point", s.Point).
			Msg("Step used an unverified fallback")
	}
	return nil
}

func (a *app) runner(cfg *config.Config) *workflow.Runner {
	d, clk := a.env.Desktop, a.env.Clock
	ctl := appctl.New(cfg.WindowTitle, d, d, d, clk, cfg.DelayShort, cfg.DelayLong, logging.Component(a.log, "appctl"))
	in := input.NewDriver(d, a.env.Clipboard, clk, cfg.DelayShort, logging.Component(a.log, "input"))
	loc := screen.NewLocator(d, logging.Component(a.log, "locator"))
	return workflow.NewRunner(cfg, ctl, in, loc, d, clk, logging.Component(a.log, "workflow"))
}

// Main runs the command with args and returns the process exit code. A
// panic anywhere below is logged at fatal level and reported as exit 1.
func Main(env *Env, args []string) (code int) {
	a := &app{env: env, log: zerolog.Nop()}
	defer a.close()
	defer func() {
		if r := recover(); r != nil {
			a.log.WithLevel(zerolog.FatalLevel).Interface("panic", r).Msg("Unhandled error")
			fmt.Fprintln(env.Stderr, pterm.Error.Sprintf("Unhandled error: %v", r))
			code = 1
		}
	}()

	cmd := a.rootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		a.log.Error().Err(err).Str("kind", string(groupsend.KindOf(err))).Msg("groupsend failed")
		fmt.Fprintln(env.Stderr, pterm.Error.Sprint(err.Error()))
		return 1
	}
	return 0
}
