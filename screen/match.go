package screen

import (
	"fmt"
	"image"
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/dsp/fourier"
)

// mat is an interleaved RGB float raster; alpha is dropped.
type mat struct {
	w, h int
	pix  []float32
}

func toMat(img image.Image) mat {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	m := mat{w: w, h: h, pix: make([]float32, w*h*3)}

	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := m.pix[y*w*3 : (y+1)*w*3]
			for x := 0; x < w; x++ {
				p := src.Pix[off+x*4 : off+x*4+3]
				row[x*3], row[x*3+1], row[x*3+2] = float32(p[0]), float32(p[1]), float32(p[2])
			}
		}
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := m.pix[y*w*3 : (y+1)*w*3]
			for x := 0; x < w; x++ {
				p := src.Pix[off+x*4 : off+x*4+3]
				row[x*3], row[x*3+1], row[x*3+2] = float32(p[0]), float32(p[1]), float32(p[2])
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				i := (y*w + x) * 3
				m.pix[i], m.pix[i+1], m.pix[i+2] = float32(r>>8), float32(g>>8), float32(bl>>8)
			}
		}
	}
	return m
}

// integral holds per-channel summed-area tables of values and squared values.
type integral struct {
	stride int
	sum    [3][]float64
	sq     [3][]float64
}

func newIntegral(m mat) *integral {
	st := m.w + 1
	ii := &integral{stride: st}
	for c := 0; c < 3; c++ {
		ii.sum[c] = make([]float64, st*(m.h+1))
		ii.sq[c] = make([]float64, st*(m.h+1))
	}
	for y := 1; y <= m.h; y++ {
		var rowSum, rowSq [3]float64
		for x := 1; x <= m.w; x++ {
			i := ((y-1)*m.w + x - 1) * 3
			for c := 0; c < 3; c++ {
				v := float64(m.pix[i+c])
				rowSum[c] += v
				rowSq[c] += v * v
				ii.sum[c][y*st+x] = ii.sum[c][(y-1)*st+x] + rowSum[c]
				ii.sq[c][y*st+x] = ii.sq[c][(y-1)*st+x] + rowSq[c]
			}
		}
	}
	return ii
}

func (ii *integral) area(a []float64, x, y, w, h int) float64 {
	st := ii.stride
	return a[(y+h)*st+x+w] - a[y*st+x+w] - a[(y+h)*st+x] + a[y*st+x]
}

// frame is a screenshot prepared once for any number of template passes.
// The per-channel spectra are computed on first use and shared by every
// template matched against the frame.
type frame struct {
	origin image.Point
	m      mat
	ii     *integral

	once    sync.Once
	n       int
	spectra [3][]complex128
	ffts    sync.Pool
	err     error
}

func newFrame(img image.Image) *frame {
	m := toMat(img)
	return &frame{origin: img.Bounds().Min, m: m, ii: newIntegral(m)}
}

// template is a mean-centred template and its L2 norm.
type template struct {
	w, h int
	c    []float64
	norm float64
}

func newTemplate(img image.Image) template {
	m := toMat(img)
	n := float64(m.w * m.h)
	var mean [3]float64
	for i, v := range m.pix {
		mean[i%3] += float64(v)
	}
	for c := range mean {
		mean[c] /= n
	}
	t := template{w: m.w, h: m.h, c: make([]float64, len(m.pix))}
	var norm2 float64
	for i, v := range m.pix {
		d := float64(v) - mean[i%3]
		t.c[i] = d
		norm2 += d * d
	}
	t.norm = math.Sqrt(norm2)
	return t
}

// fftSize is the smallest length >= n whose only prime factors are 2, 3
// and 5.
func fftSize(n int) int {
	for m := max(n, 1); ; m++ {
		r := m
		for _, p := range []int{2, 3, 5} {
			for r%p == 0 {
				r /= p
			}
		}
		if r == 1 {
			return m
		}
	}
}

// guarded turns a panic in fn into an error so it surfaces through
// errgroup.Wait instead of killing the process.
func guarded(what string, fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s: %v", what, r)
			}
		}()
		fn()
		return nil
	}
}

func (f *frame) fft() *fourier.FFT {
	return f.ffts.Get().(*fourier.FFT)
}

// spectrum transforms each channel of the frame, laid out row-major and
// zero padded to f.n.
func (f *frame) spectrum() error {
	f.once.Do(func() {
		f.n = fftSize(f.m.w * f.m.h)
		f.ffts.New = func() any { return fourier.NewFFT(f.n) }

		var g errgroup.Group
		for c := 0; c < 3; c++ {
			c := c
			g.Go(guarded("image spectrum", func() {
				seq := make([]float64, f.n)
				for i := 0; i < f.m.w*f.m.h; i++ {
					seq[i] = float64(f.m.pix[i*3+c])
				}
				t := f.fft()
				f.spectra[c] = t.Coefficients(nil, seq)
				f.ffts.Put(t)
			}))
		}
		f.err = g.Wait()
	})
	return f.err
}

// correlate returns sum over channels of the cross-correlation between the
// frame and the centred template. The template is laid out with the frame's
// row stride, so entry y*w+x is the 2-D correlation at (x, y) for every
// position where the template fits; the padding keeps those entries free of
// wrap-around.
func (f *frame) correlate(t template) ([]float64, error) {
	if err := f.spectrum(); err != nil {
		return nil, err
	}
	w := f.m.w

	var parts [3][]complex128
	var g errgroup.Group
	for c := 0; c < 3; c++ {
		c := c
		g.Go(guarded("template spectrum", func() {
			seq := make([]float64, f.n)
			for ty := 0; ty < t.h; ty++ {
				for tx := 0; tx < t.w; tx++ {
					seq[ty*w+tx] = t.c[(ty*t.w+tx)*3+c]
				}
			}
			ft := f.fft()
			coeff := ft.Coefficients(nil, seq)
			f.ffts.Put(ft)
			for i, v := range coeff {
				coeff[i] = cmplx.Conj(v) * f.spectra[c][i]
			}
			parts[c] = coeff
		}))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := parts[0]
	for i := range sum {
		sum[i] += parts[1][i] + parts[2][i]
	}
	ft := f.fft()
	corr := ft.Sequence(nil, sum)
	f.ffts.Put(ft)

	// Sequence is unnormalized.
	inv := 1 / float64(f.n)
	for i := range corr {
		corr[i] *= inv
	}
	return corr, nil
}

// tieTolerance absorbs FFT rounding: scores this close to the maximum count
// as equal, and the first of them in row-major order wins.
const tieTolerance = 1e-9

// match returns the top-left corner (in image coordinates) and score of the
// highest normalized correlation coefficient, first in row-major order on ties.
func (f *frame) match(t template) (Point, float64, error) {
	if t.w == 0 || t.h == 0 {
		return Point{}, 0, fmt.Errorf("empty template")
	}
	if t.w > f.m.w || t.h > f.m.h {
		return Point{}, 0, fmt.Errorf("template %dx%d larger than image %dx%d", t.w, t.h, f.m.w, f.m.h)
	}

	corr, err := f.correlate(t)
	if err != nil {
		return Point{}, 0, err
	}

	rw, rh := f.m.w-t.w+1, f.m.h-t.h+1
	scores := make([]float64, rw*rh)
	bands := runtime.GOMAXPROCS(0) * 4
	if bands > rh {
		bands = rh
	}
	peaks := make([]float64, bands)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for b := 0; b < bands; b++ {
		b := b
		y0, y1 := b*rh/bands, (b+1)*rh/bands
		g.Go(guarded(fmt.Sprintf("rows %d-%d", y0, y1), func() {
			peaks[b] = f.scoreRows(t, corr, scores, y0, y1, rw)
		}))
	}
	if err := g.Wait(); err != nil {
		return Point{}, 0, err
	}

	peak := math.Inf(-1)
	for _, p := range peaks {
		peak = math.Max(peak, p)
	}
	for i, s := range scores {
		if s >= peak-tieTolerance {
			return Point{X: f.origin.X + i%rw, Y: f.origin.Y + i/rw}, s, nil
		}
	}
	return Point{}, 0, fmt.Errorf("no score reached the peak %v", peak)
}

// scoreRows fills scores for result rows [y0, y1) and returns their maximum.
func (f *frame) scoreRows(t template, corr, scores []float64, y0, y1, rw int) float64 {
	n := float64(t.w * t.h)
	peak := math.Inf(-1)

	for y := y0; y < y1; y++ {
		for x := 0; x < rw; x++ {
			var wndVar float64
			for c := 0; c < 3; c++ {
				s := f.ii.area(f.ii.sum[c], x, y, t.w, t.h)
				wndVar += f.ii.area(f.ii.sq[c], x, y, t.w, t.h) - s*s/n
			}
			score := normalize(corr[y*f.m.w+x], math.Sqrt(math.Max(wndVar, 0))*t.norm)
			scores[y*rw+x] = score
			peak = math.Max(peak, score)
		}
	}
	return peak
}

// normalize divides by the norm product, clamping the near-degenerate
// cases the same way OpenCV's TM_CCOEFF_NORMED does.
func normalize(num, den float64) float64 {
	switch {
	case math.Abs(num) < den:
		return num / den
	case math.Abs(num) < den*1.125:
		if num > 0 {
			return 1
		}
		return -1
	default:
		return 0
	}
}

// MatchTemplate slides tpl over img and returns the top-left corner of the
// best match in img's coordinate space together with its normalized
// correlation coefficient in [-1, 1]. The correlation numerator is computed
// in the frequency domain, so the cost grows with the image size rather
// than with image size times template size.
func MatchTemplate(img, tpl image.Image) (Point, float64, error) {
	return newFrame(img).match(newTemplate(tpl))
}
