// Package calibrate records where the search box is on screen so the
// workflow can click it when no template matches.
package calibrate

import (
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/rpdg/groupsend/internal/clock"
	"github.com/rpdg/groupsend/internal/config"
	"github.com/rpdg/groupsend/screen"
)

// Countdown is how long the user has to move the pointer.
const Countdown = 5 * time.Second

type Pointer interface {
	Position() (x, y int, err error)
}

type Store interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
}

type Calibrator struct {
	Pointer Pointer
	Store   Store
	Clock   clock.Clock
	Out     io.Writer
	log     zerolog.Logger
}

func New(p Pointer, s Store, clk clock.Clock, out io.Writer, log zerolog.Logger) *Calibrator {
	return &Calibrator{Pointer: p, Store: s, Clock: clk, Out: out, log: log}
}

// Run counts down, reads the pointer position and persists it as the search
// box position. A failed save is reported but does not fail the run; only a
// pointer that cannot be read is an error.
func (c *Calibrator) Run() (screen.Point, error) {
	c.log.Info().Msg("Starting search box calibration")
	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, pterm.Bold.Sprint("==== Search box calibration ===="))
	fmt.Fprintf(c.Out, "Move the mouse to the center of the search box within %d seconds...\n", int(Countdown/time.Second))

	for i := int(Countdown / time.Second); i > 0; i-- {
		fmt.Fprintf(c.Out, "%ds...\r", i)
		c.Clock.Sleep(time.Second)
	}

	x, y, err := c.Pointer.Position()
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to read pointer position")
		fmt.Fprintln(c.Out, pterm.Error.Sprintf("Could not read the mouse position: %v", err))
		return screen.Point{}, err
	}
	p := screen.Point{X: x, Y: y}
	c.log.Debug().Stringer("point", p).Msg("Pointer position read")
	fmt.Fprintf(c.Out, "\nDetected position: %s\n", pterm.FgCyan.Sprint(p.String()))

	cfg, err := c.Store.Load()
	if err != nil {
		c.log.Error().Err(err).Msg("Could not load configuration, starting from an empty one")
		cfg = config.Default()
	}

	if old, ok := cfg.SearchBox(); ok {
		c.log.Info().Stringer("old", old).Stringer("new", p).Msg("Search box position updated")
	} else {
		c.log.Info().Stringer("new", p).Msg("Search box position set")
	}
	cfg.SetSearchBox(p)

	if err := c.Store.Save(cfg); err != nil {
		fmt.Fprintln(c.Out, pterm.Error.Sprint("Failed to save the search box position"))
		return p, nil
	}
	fmt.Fprintln(c.Out, pterm.Success.Sprintf("Search box position saved: %s", p))
	return p, nil
}
