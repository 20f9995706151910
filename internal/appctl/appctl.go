// Package appctl makes sure the chat client is running and owns the
// foreground before any input is sent to it.
package appctl

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	groupsend "github.com/rpdg/groupsend"
	"github.com/rpdg/groupsend/internal/clock"
	"github.com/rpdg/groupsend/window"
)

const (
	// LaunchPolls is how many long delays Launch waits for a window.
	LaunchPolls = 10
	// ActivateAttempts bounds the focus loop in Activate.
	ActivateAttempts = 3
	// TitleBarOffset is how far below the window top the caption click lands.
	TitleBarOffset = 20
)

type Windows interface {
	FindByTitle(substr string) ([]window.Info, error)
	Restore(w window.Info) error
	Activate(w window.Info) error
}

type Launcher interface {
	Start(path string) error
}

type Clicker interface {
	Click(x, y int) error
}

type Controller struct {
	Title      string
	Windows    Windows
	Launcher   Launcher
	Mouse      Clicker
	Clock      clock.Clock
	DelayShort time.Duration
	DelayLong  time.Duration
	log        zerolog.Logger
}

func New(title string, w Windows, l Launcher, m Clicker, clk clock.Clock, short, long time.Duration, log zerolog.Logger) *Controller {
	return &Controller{
		Title:      title,
		Windows:    w,
		Launcher:   l,
		Mouse:      m,
		Clock:      clk,
		DelayShort: short,
		DelayLong:  long,
		log:        log.With().Str("title", title).Logger(),
	}
}

// IsRunning reports whether any window title contains the configured title.
// Lookup failures are logged and reported as not running.
func (c *Controller) IsRunning() bool {
	wins, err := c.Windows.FindByTitle(c.Title)
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to enumerate windows")
		return false
	}
	c.log.Debug().Int("count", len(wins)).Msg("Matching windows")
	for _, w := range wins {
		c.log.Debug().
			Str("window", w.Title).
			Int("left", w.Left).Int("top", w.Top).
			Int("width", w.Width).Int("height", w.Height).
			Msg("Window found")
	}
	return len(wins) > 0
}

// Launch starts the executable at path and waits for its window.
func (c *Controller) Launch(path string) error {
	const op = "appctl.Launch"
	log := c.log.With().Str("path", path).Logger()

	if _, err := os.Stat(path); err != nil {
		log.Error().Err(err).Msg("Application executable does not exist")
		return groupsend.Wrap(err, groupsend.KindResource, op, "executable not found: "+path)
	}

	log.Info().Msg("Launching application")
	if err := c.Launcher.Start(path); err != nil {
		log.Error().Err(err).Msg("Failed to start application")
		return groupsend.Wrap(err, groupsend.KindUnexpected, op, "cannot start "+path)
	}

	for i := 1; i <= LaunchPolls; i++ {
		c.Clock.Sleep(c.DelayLong)
		log.Debug().Int("attempt", i).Int("max", LaunchPolls).Msg("Waiting for application window")
		if c.IsRunning() {
			log.Info().Msg("Application started")
			return nil
		}
	}

	log.Error().Int("attempts", LaunchPolls).Msg("Application window did not appear")
	return groupsend.Errorf(groupsend.KindTiming, op, "no window titled %q after %d polls", c.Title, LaunchPolls)
}

// Activate launches the application when needed, then brings its first
// window to the foreground and clicks its title bar.
func (c *Controller) Activate(path string) error {
	const op = "appctl.Activate"

	if c.IsRunning() {
		c.log.Info().Msg("Application already running, activating window")
	} else {
		c.log.Info().Msg("Application not running, launching")
		if err := c.Launch(path); err != nil {
			return err
		}
	}

	for attempt := 1; attempt <= ActivateAttempts; attempt++ {
		log := c.log.With().Int("attempt", attempt).Logger()
		err := c.focus(log)
		if err == nil {
			log.Info().Msg("Window activated")
			return nil
		}
		log.Warn().Err(err).Int("max", ActivateAttempts).Msg("Activation attempt failed")
		c.Clock.Sleep(c.DelayShort)
	}

	c.log.Error().Int("attempts", ActivateAttempts).Msg("Could not activate window")
	return groupsend.Errorf(groupsend.KindTiming, op, "window %q not activated after %d attempts", c.Title, ActivateAttempts)
}

func (c *Controller) focus(log zerolog.Logger) error {
	wins, err := c.Windows.FindByTitle(c.Title)
	if err != nil {
		return err
	}
	if len(wins) == 0 {
		return groupsend.ErrWindowNotFound
	}

	w := wins[0]
	log.Debug().
		Str("window", w.Title).
		Int("left", w.Left).Int("top", w.Top).
		Int("width", w.Width).Int("height", w.Height).
		Msg("Using window")

	if w.Minimized {
		log.Debug().Msg("Window minimized, restoring")
		if err := c.Windows.Restore(w); err != nil {
			return err
		}
		c.Clock.Sleep(c.DelayShort)
	}

	if err := c.Windows.Activate(w); err != nil {
		return err
	}
	c.Clock.Sleep(c.DelayShort)

	x, y := w.TitleBarPoint(TitleBarOffset)
	log.Debug().Int("x", x).Int("y", y).Msg("Clicking title bar")
	if err := c.Mouse.Click(x, y); err != nil {
		return err
	}
	c.Clock.Sleep(c.DelayShort)
	return nil
}
