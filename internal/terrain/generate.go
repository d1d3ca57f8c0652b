package terrain

import (
	"fmt"
	"math"
)

type Config struct {
	Size       float64 `yaml:"size"`
	Resolution int     `yaml:"resolution"`
	MinHeight  float64 `yaml:"min_height"`
	MaxHeight  float64 `yaml:"max_height"`
	Seed       uint64  `yaml:"seed"`
	Octaves    int     `yaml:"octaves"`
	Hills      int     `yaml:"hills"`
	Layer      uint32  `yaml:"layer"`
}

func DefaultConfig() Config {
	return Config{
		Size:       1200,
		Resolution: 256,
		MinHeight:  0,
		MaxHeight:  40,
		Seed:       7,
		Octaves:    5,
		Hills:      6,
		Layer:      DefaultLayer,
	}
}

func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("terrain size must be > 0, got %v", c.Size)
	}
	if c.Resolution < 1 {
		return fmt.Errorf("terrain resolution must be >= 1, got %d", c.Resolution)
	}
	if c.MaxHeight < c.MinHeight {
		return fmt.Errorf("terrain max_height %v below min_height %v", c.MaxHeight, c.MinHeight)
	}
	if c.Octaves < 1 {
		return fmt.Errorf("terrain octaves must be >= 1, got %d", c.Octaves)
	}
	if c.Hills < 0 {
		return fmt.Errorf("terrain hills must be >= 0, got %d", c.Hills)
	}
	return nil
}

// Generate builds a rolling height field from fractal value noise with a few
// rounded hills on top. The same config always yields the same field.
func Generate(cfg Config) (*HeightField, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	points := cfg.Resolution + 1
	raw := make([]float64, points*points)

	type hill struct{ x, z, height, radius float64 }
	hills := make([]hill, cfg.Hills)
	for i := range hills {
		hills[i] = hill{
			x:      unitHash(cfg.Seed, i, 0),
			z:      unitHash(cfg.Seed, i, 1),
			height: 0.4 + 0.6*unitHash(cfg.Seed, i, 2),
			radius: 0.05 + 0.1*unitHash(cfg.Seed, i, 3),
		}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for j := 0; j < points; j++ {
		for i := 0; i < points; i++ {
			nx := float64(i) / float64(cfg.Resolution)
			nz := float64(j) / float64(cfg.Resolution)

			elevation := 0.0
			frequency, amplitude := 4.0, 0.5
			for o := 0; o < cfg.Octaves; o++ {
				elevation += smoothNoise(cfg.Seed+uint64(o), nx*frequency, nz*frequency) * amplitude
				frequency *= 2
				amplitude /= 2
			}

			for _, hl := range hills {
				d := math.Hypot(nx-hl.x, nz-hl.z)
				if d < hl.radius {
					falloff := 1 - d/hl.radius
					elevation += hl.height * falloff * falloff
				}
			}

			raw[j*points+i] = elevation
			lo = math.Min(lo, elevation)
			hi = math.Max(hi, elevation)
		}
	}

	span := hi - lo
	for k, v := range raw {
		t := 0.0
		if span > 0 {
			t = (v - lo) / span
		}
		raw[k] = cfg.MinHeight + t*(cfg.MaxHeight-cfg.MinHeight)
	}

	return NewHeightField(cfg.Size, cfg.Resolution, raw, cfg.Layer)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// unitHash maps (seed, a, b) to [0, 1).
func unitHash(seed uint64, a, b int) float64 {
	h := splitmix64(seed ^ splitmix64(uint64(int64(a))*0x632be59bd9b4e019^uint64(int64(b))))
	return float64(h>>11) / float64(1<<53)
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func smoothNoise(seed uint64, x, z float64) float64 {
	x0, z0 := math.Floor(x), math.Floor(z)
	sx, sz := smoothstep(x-x0), smoothstep(z-z0)
	ix, iz := int(x0), int(z0)

	n00 := unitHash(seed, ix, iz)
	n10 := unitHash(seed, ix+1, iz)
	n01 := unitHash(seed, ix, iz+1)
	n11 := unitHash(seed, ix+1, iz+1)

	near := n00 + (n10-n00)*sx
	far := n01 + (n11-n01)*sx
	return near + (far-near)*sz
}
