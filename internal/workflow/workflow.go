// Package workflow runs the four steps that put a message into a group chat:
// activate the client, focus its search box, open the group, and compose.
//
// Steps two and three have fallbacks (calibrated point, keyboard
// navigation) that cannot tell whether they hit the right control. They do
// not fail the run, but every step records which strategy it used so a
// caller can tell a template hit from a blind click.
package workflow

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	groupsend "github.com/rpdg/groupsend"
	"github.com/rpdg/groupsend/internal/clock"
	"github.com/rpdg/groupsend/internal/config"
	"github.com/rpdg/groupsend/internal/message"
	"github.com/rpdg/groupsend/keyboard"
	"github.com/rpdg/groupsend/screen"
)

// DefaultSearchBox is clicked when neither a template nor calibration
// locates the search box.
var DefaultSearchBox = screen.Point{X: 100, Y: 100}

type Step string

const (
	StepActivate    Step = "activate"
	StepFocusSearch Step = "focus_search"
	StepSearchGroup Step = "search_group"
	StepCompose     Step = "compose"
)

type Strategy string

const (
	StrategyWindow     Strategy = "window"
	StrategyTemplate   Strategy = "template"
	StrategyCalibrated Strategy = "calibrated"
	StrategyDefault    Strategy = "default"
	StrategyKeyboard   Strategy = "keyboard"
	StrategyStaged     Strategy = "staged"
	StrategySent       Strategy = "sent"
)

type StepResult struct {
	Step     Step
	Strategy Strategy
	// Point is the clicked location, zero when the step clicked nothing.
	Point screen.Point
	// Fallback is set when the step could not confirm it reached its target.
	Fallback bool
}

type Report struct {
	RunID   string
	Message string
	Steps   []StepResult
	Sent    bool
}

// Fallbacks returns the steps that fell back to an unverified strategy.
func (r *Report) Fallbacks() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Fallback {
			out = append(out, s)
		}
	}
	return out
}

type App interface {
	Activate(path string) error
}

type Input interface {
	ClearField() error
	TypeText(text string) error
	Press(k keyboard.Key) error
}

type Locator interface {
	Find(set screen.TemplateSet) (screen.Match, bool, error)
}

type Mouse interface {
	Click(x, y int) error
	ClickCurrent() error
}

type Runner struct {
	Config  *config.Config
	App     App
	Input   Input
	Locator Locator
	Mouse   Mouse
	Clock   clock.Clock
	log     zerolog.Logger
}

func NewRunner(cfg *config.Config, app App, in Input, loc Locator, m Mouse, clk clock.Clock, log zerolog.Logger) *Runner {
	return &Runner{Config: cfg, App: app, Input: in, Locator: loc, Mouse: m, Clock: clk, log: log}
}

// Run executes the workflow once. The report is returned even when a step
// fails and lists the steps that completed. Failed steps are not retried.
func (r *Runner) Run() (*Report, error) {
	cfg := r.Config
	rep := &Report{RunID: uuid.NewString()}
	log := r.log.With().Str("run_id", rep.RunID).Logger()
	start := r.Clock.Now()

	rep.Message = message.Resolve(cfg, start, log)

	log.Info().
		Str("group", cfg.GroupName).
		Bool("autoSend", cfg.AutoSend).
		Int("messageLength", len([]rune(rep.Message))).
		Msg("Starting run")
	log.Debug().Str("preview", preview(rep.Message, 20)).Msg("Message")

	steps := []struct {
		step Step
		fn   func(zerolog.Logger) (StepResult, error)
	}{
		{StepActivate, r.activate},
		{StepFocusSearch, r.focusSearchBox},
		{StepSearchGroup, func(l zerolog.Logger) (StepResult, error) { return r.searchGroup(l, cfg.GroupName) }},
		{StepCompose, func(l zerolog.Logger) (StepResult, error) { return r.compose(l, rep.Message, cfg.AutoSend) }},
	}

	for i, s := range steps {
		stepLog := log.With().Str("step", string(s.step)).Logger()
		stepLog.Info().Int("n", i+1).Msg("Step started")

		res, err := s.fn(stepLog)
		if err != nil {
			stepLog.Error().Err(err).Msg("Step failed, aborting run")
			return rep, err
		}
		rep.Steps = append(rep.Steps, res)

		ev := stepLog.Info()
		if res.Fallback {
			ev = stepLog.Warn()
		}
		ev.Str("strategy", string(res.Strategy)).Bool("fallback", res.Fallback).Msg("Step completed")
	}

	rep.Sent = cfg.AutoSend
	log.Info().
		Bool("sent", rep.Sent).
		Int("fallbacks", len(rep.Fallbacks())).
		Dur("elapsed", r.Clock.Now().Sub(start)).
		Msg("Run completed")
	return rep, nil
}

func (r *Runner) activate(log zerolog.Logger) (StepResult, error) {
	log.Debug().Str("path", r.Config.AppPath).Msg("Activating application")
	return StepResult{Step: StepActivate, Strategy: StrategyWindow}, r.App.Activate(r.Config.AppPath)
}

// find runs the locator and treats a capture failure as not found.
func (r *Runner) find(log zerolog.Logger, set screen.TemplateSet) (screen.Match, bool) {
	m, ok, err := r.Locator.Find(set)
	if err != nil {
		log.Error().Err(err).Msg("Screen capture failed")
		return screen.Match{}, false
	}
	if ok {
		log.Info().
			Str("template", m.Template).
			Float64("scale", m.Scale).
			Float64("score", m.Score).
			Stringer("point", m.Point).
			Msg("Template matched")
	}
	return m, ok
}

func (r *Runner) focusSearchBox(log zerolog.Logger) (StepResult, error) {
	res := StepResult{Step: StepFocusSearch}

	if m, ok := r.find(log, r.Config.SearchSet()); ok {
		res.Strategy, res.Point = StrategyTemplate, m.Point
	} else if p, ok := r.Config.SearchBox(); ok {
		log.Warn().Stringer("point", p).Msg("Search icon not found, using calibrated position")
		res.Strategy, res.Point, res.Fallback = StrategyCalibrated, p, true
	} else {
		log.Warn().Stringer("point", DefaultSearchBox).Msg("Search icon not found and not calibrated, using default position")
		res.Strategy, res.Point, res.Fallback = StrategyDefault, DefaultSearchBox, true
	}

	if err := r.Mouse.Click(res.Point.X, res.Point.Y); err != nil {
		log.Error().Err(err).Stringer("point", res.Point).Msg("Click on search box failed")
		res.Fallback = true
	}
	r.Clock.Sleep(r.Config.DelayShort)
	return res, nil
}

func (r *Runner) searchGroup(log zerolog.Logger, name string) (StepResult, error) {
	const op = "workflow.SearchGroup"
	res := StepResult{Step: StepSearchGroup}
	log = log.With().Str("group", name).Logger()

	if err := r.Input.ClearField(); err != nil {
		log.Error().Err(err).Msg("Failed to clear search box")
	}

	log.Info().Msg("Typing group name")
	if err := r.Input.TypeText(name); err != nil {
		return res, groupsend.Wrap(err, groupsend.KindUnexpected, op, "typing group name failed")
	}
	r.Clock.Sleep(r.Config.DelayLong)

	if err := r.Input.Press(keyboard.KeyEnter); err != nil {
		return res, groupsend.Wrap(err, groupsend.KindUnexpected, op, "confirming search failed")
	}
	r.Clock.Sleep(r.Config.DelayLong)

	if m, ok := r.find(log, r.Config.GroupSet()); ok {
		err := r.Mouse.Click(m.Point.X, m.Point.Y)
		if err == nil {
			r.Clock.Sleep(r.Config.DelayShort)
			res.Strategy, res.Point = StrategyTemplate, m.Point
			return res, nil
		}
		log.Error().Err(err).Stringer("point", m.Point).Msg("Click on group result failed")
	}

	log.Warn().Msg("Group result not found, selecting first result with the keyboard")
	res.Strategy, res.Fallback = StrategyKeyboard, true
	for _, k := range []keyboard.Key{keyboard.KeyArrowDown, keyboard.KeyEnter} {
		if err := r.Input.Press(k); err != nil {
			return res, groupsend.Wrap(err, groupsend.KindUnexpected, op, "keyboard selection failed")
		}
		r.Clock.Sleep(r.Config.DelayShort)
	}
	return res, nil
}

func (r *Runner) compose(log zerolog.Logger, text string, autoSend bool) (StepResult, error) {
	const op = "workflow.Compose"
	res := StepResult{Step: StepCompose, Strategy: StrategyStaged}
	log.Info().Str("message", preview(text, 100)).Msg("Composing message")

	if err := r.Input.ClearField(); err != nil {
		return res, groupsend.Wrap(err, groupsend.KindUnexpected, op, "clearing input box failed")
	}

	if err := r.Mouse.ClickCurrent(); err != nil {
		return res, groupsend.Wrap(err, groupsend.KindUnexpected, op, "focusing input box failed")
	}
	r.Clock.Sleep(r.Config.DelayShort)

	if err := r.Input.TypeText(text); err != nil {
		return res, groupsend.Wrap(err, groupsend.KindUnexpected, op, "typing message failed")
	}
	log.Info().Msg("Message staged in input box")

	if !autoSend {
		log.Info().Msg("Auto send disabled, leaving message unsent")
		return res, nil
	}
	if err := r.Input.Press(keyboard.KeyEnter); err != nil {
		return res, groupsend.Wrap(err, groupsend.KindUnexpected, op, "sending message failed")
	}
	res.Strategy = StrategySent
	log.Info().Msg("Message sent")
	return res, nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
