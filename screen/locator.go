package screen

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

// DefaultScales are tried in this order for every template, to absorb DPI
// and layout differences between the machine that captured the template and
// the one running.
var DefaultScales = []float64{0.8, 0.9, 1.0, 1.1, 1.2}

// TemplateSet is an ordered list of template image paths (highest priority
// first) and the minimum score a match must reach.
type TemplateSet struct {
	Paths     []string
	Threshold float64
}

// Match is a successful template hit. Point is the center of the matched
// area in virtual-desktop coordinates.
type Match struct {
	Point
	Template string
	Scale    float64
	Score    float64
}

// Capturer produces a full screenshot. The image's Bounds().Min must be the
// screen coordinate of its top-left pixel.
type Capturer interface {
	Capture() (image.Image, error)
}

// CaptureFunc adapts a function to Capturer.
type CaptureFunc func() (image.Image, error)

func (f CaptureFunc) Capture() (image.Image, error) { return f() }

// Locator finds template images on screen.
type Locator struct {
	Capture Capturer
	// Scales overrides DefaultScales when non-empty.
	Scales []float64
	// Load decodes a template file; defaults to imaging.Open.
	Load func(path string) (image.Image, error)

	log zerolog.Logger
}

func NewLocator(c Capturer, log zerolog.Logger) *Locator {
	return &Locator{
		Capture: c,
		Load:    func(path string) (image.Image, error) { return imaging.Open(path) },
		log:     log,
	}
}

func (l *Locator) scales() []float64 {
	if len(l.Scales) > 0 {
		return l.Scales
	}
	return DefaultScales
}

// Find captures the screen once and tries every template in priority order
// at every scale in order; the first pair scoring at least set.Threshold
// wins. Not finding anything is reported as (Match{}, false, nil); the error
// is only set when the screen could not be captured.
func (l *Locator) Find(set TemplateSet) (Match, bool, error) {
	l.log.Debug().Strs("templates", set.Paths).Float64("threshold", set.Threshold).Msg("Searching screen for templates")

	shot, err := l.Capture.Capture()
	if err != nil {
		l.log.Error().Err(err).Msg("Screen capture failed")
		return Match{}, false, fmt.Errorf("capture screen: %w", err)
	}
	b := shot.Bounds()
	l.log.Debug().Int("width", b.Dx()).Int("height", b.Dy()).Msg("Screen captured")
	f := newFrame(shot)

	for _, path := range set.Paths {
		tpl, ok := l.loadTemplate(path)
		if !ok {
			continue
		}
		tb := tpl.Bounds()
		l.log.Debug().Str("template", path).Int("width", tb.Dx()).Int("height", tb.Dy()).Msg("Template loaded")

		for _, scale := range l.scales() {
			m, err := l.tryScale(f, tpl, scale)
			if err != nil {
				l.log.Error().Err(err).Str("template", path).Float64("scale", scale).Msg("Template matching failed")
				continue
			}
			l.log.Debug().Str("template", path).Float64("scale", scale).Float64("score", m.Score).Stringer("center", m.Point).Msg("Match candidate")

			if m.Score >= set.Threshold {
				m.Template = path
				l.log.Info().Str("template", path).Stringer("center", m.Point).Float64("score", m.Score).Float64("scale", scale).Msg("Template found on screen")
				return m, true, nil
			}
		}
	}

	l.log.Warn().Strs("templates", set.Paths).Msg("No template matched")
	return Match{}, false, nil
}

func (l *Locator) loadTemplate(path string) (image.Image, bool) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		l.log.Warn().Str("template", path).Msg("Template image does not exist")
		return nil, false
	}
	load := l.Load
	if load == nil {
		load = func(p string) (image.Image, error) { return imaging.Open(p) }
	}
	img, err := load(path)
	if err != nil {
		l.log.Warn().Err(err).Str("template", path).Msg("Cannot read template image")
		return nil, false
	}
	return img, true
}

func (l *Locator) tryScale(f *frame, tpl image.Image, scale float64) (m Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while matching: %v", r)
		}
	}()

	scaled := tpl
	if scale != 1.0 {
		b := tpl.Bounds()
		w := int(math.Round(float64(b.Dx()) * scale))
		h := int(math.Round(float64(b.Dy()) * scale))
		if w < 1 || h < 1 {
			return Match{}, fmt.Errorf("template scaled to %dx%d", w, h)
		}
		scaled = imaging.Resize(tpl, w, h, imaging.Linear)
	}

	t := newTemplate(scaled)
	topLeft, score, err := f.match(t)
	if err != nil {
		return Match{}, err
	}
	return Match{
		Point: Point{X: topLeft.X + t.w/2, Y: topLeft.Y + t.h/2},
		Scale: scale,
		Score: score,
	}, nil
}
