package spectral

import (
	"errors"
	"fmt"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend names accepted by NewTransform
const (
	BackendGonum = "gonum"
	BackendGoDSP = "godsp"
)

// ErrUnknownBackend is returned by NewTransform for an unrecognised backend name
var ErrUnknownBackend = errors.New("unknown transform backend")

// Transform is a forward real-to-complex FFT of a fixed length.
//
// Forward writes the Len()/2+1 non-negative frequency bins of src into dst.
// len(src) must equal Len() and len(dst) must equal Len()/2+1; a mismatch is
// a programming error and panics. Implementations may keep scratch state and
// are not safe for concurrent use.
type Transform interface {
	Len() int
	Forward(dst []complex128, src []float64)
}

// ValidBackend reports whether NewTransform accepts name
func ValidBackend(name string) bool {
	return name == BackendGonum || name == BackendGoDSP || name == ""
}

// NewTransform builds the named backend for n-point transforms
func NewTransform(backend string, n int) (Transform, error) {
	switch backend {
	case BackendGonum, "":
		return NewGonumTransform(n), nil
	case BackendGoDSP:
		return NewGoDSPTransform(n), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// GonumTransform is a planned real FFT backed by gonum's fourier.FFT.
// The plan and its work buffers are built once; Forward does not allocate.
type GonumTransform struct {
	plan *fourier.FFT
	n    int
}

// NewGonumTransform plans an n-point real FFT
func NewGonumTransform(n int) *GonumTransform {
	if n < 1 {
		panic(fmt.Sprintf("spectral: transform length must be positive, got %d", n))
	}
	return &GonumTransform{
		plan: fourier.NewFFT(n),
		n:    n,
	}
}

func (g *GonumTransform) Len() int { return g.n }

// Forward computes the half spectrum of src into dst
func (g *GonumTransform) Forward(dst []complex128, src []float64) {
	checkTransformLengths(g.n, dst, src)
	g.plan.Coefficients(dst, src)
}

// GoDSPTransform computes the spectrum with mjibson/go-dsp. go-dsp has no
// plan object, so every call allocates a full n-point complex spectrum; only
// the non-negative bins are copied out. It is a reference backend for
// cross-checking GonumTransform, not for long batch runs.
type GoDSPTransform struct {
	n int
}

// NewGoDSPTransform creates an n-point go-dsp backed transform
func NewGoDSPTransform(n int) *GoDSPTransform {
	if n < 1 {
		panic(fmt.Sprintf("spectral: transform length must be positive, got %d", n))
	}
	return &GoDSPTransform{n: n}
}

func (g *GoDSPTransform) Len() int { return g.n }

// Forward computes the half spectrum of src into dst
func (g *GoDSPTransform) Forward(dst []complex128, src []float64) {
	checkTransformLengths(g.n, dst, src)
	full := fft.FFTReal(src)
	copy(dst, full[:len(dst)])
}

func checkTransformLengths(n int, dst []complex128, src []float64) {
	if len(src) != n || len(dst) != n/2+1 {
		panic(fmt.Sprintf("spectral: transform of length %d got src %d, dst %d (want %d, %d)",
			n, len(src), len(dst), n, n/2+1))
	}
}
