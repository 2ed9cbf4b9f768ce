package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/threads/config"
)

// Noise is a coherent 3-D noise source returning values in [0, 1].
// Implementations must be deterministic for a given seed.
type Noise interface {
	Eval(x, y, z float64) float64
}

// NewNoise builds the configured noise source.
func NewNoise(cfg config.NoiseConfig) (Noise, error) {
	switch cfg.Kind {
	case config.NoisePerlin:
		return NewPerlinNoise(cfg.Seed), nil
	case config.NoiseSimplex:
		return NewSimplexNoise(cfg.Seed), nil
	case config.NoiseNone:
		return ZeroNoise{}, nil
	default:
		return nil, fmt.Errorf("%w: noise kind %q", ErrUnsupportedMode, cfg.Kind)
	}
}

// ZeroNoise always returns the midpoint, which maps to no wander force.
type ZeroNoise struct{}

// Eval implements Noise.
func (ZeroNoise) Eval(x, y, z float64) float64 { return 0.5 }

// SimplexNoise wraps OpenSimplex noise normalized to [0, 1].
type SimplexNoise struct {
	n opensimplex.Noise
}

// NewSimplexNoise creates a seeded OpenSimplex source.
func NewSimplexNoise(seed int64) *SimplexNoise {
	return &SimplexNoise{n: opensimplex.NewNormalized(seed)}
}

// Eval implements Noise.
func (s *SimplexNoise) Eval(x, y, z float64) float64 {
	return s.n.Eval3(x, y, z)
}

// PerlinNoise generates coherent noise values.
type PerlinNoise struct {
	perm [512]int
}

// NewPerlinNoise creates a new Perlin noise generator.
func NewPerlinNoise(seed int64) *PerlinNoise {
	p := &PerlinNoise{}
	rng := rand.New(rand.NewSource(seed))

	// Initialize permutation table
	var perm [256]int
	for i := range perm {
		perm[i] = i
	}

	// Shuffle
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	// Duplicate
	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}

	return p
}

// Eval implements Noise by remapping Noise3D from [-1, 1] to [0, 1].
func (p *PerlinNoise) Eval(x, y, z float64) float64 {
	return clamp01(p.Noise3D(x, y, z)*0.5 + 0.5)
}

// Noise3D returns a noise value for 3D coordinates, roughly in [-1, 1].
func (p *PerlinNoise) Noise3D(x, y, z float64) float64 {
	// Find unit cube
	X := int(math.Floor(x)) & 255
	Y := int(math.Floor(y)) & 255
	Z := int(math.Floor(z)) & 255

	// Find relative position in cube
	x -= math.Floor(x)
	y -= math.Floor(y)
	z -= math.Floor(z)

	u := fade(x)
	v := fade(y)
	w := fade(z)

	// Hash coordinates of cube corners
	A := p.perm[X] + Y
	AA := p.perm[A] + Z
	AB := p.perm[A+1] + Z
	B := p.perm[X+1] + Y
	BA := p.perm[B] + Z
	BB := p.perm[B+1] + Z

	return lerp(w, lerp(v, lerp(u, grad3D(p.perm[AA], x, y, z),
		grad3D(p.perm[BA], x-1, y, z)),
		lerp(u, grad3D(p.perm[AB], x, y-1, z),
			grad3D(p.perm[BB], x-1, y-1, z))),
		lerp(v, lerp(u, grad3D(p.perm[AA+1], x, y, z-1),
			grad3D(p.perm[BA+1], x-1, y, z-1)),
			lerp(u, grad3D(p.perm[AB+1], x, y-1, z-1),
				grad3D(p.perm[BB+1], x-1, y-1, z-1))))
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad3D(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
