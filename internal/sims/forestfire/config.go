package forestfire

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"wildfire-ca/internal/core"
)

// WindDir is one of the eight compass points. It names the heading the fire
// is pushed toward; N points up the grid (decreasing row).
type WindDir string

const (
	WindN  WindDir = "N"
	WindNE WindDir = "NE"
	WindE  WindDir = "E"
	WindSE WindDir = "SE"
	WindS  WindDir = "S"
	WindSW WindDir = "SW"
	WindW  WindDir = "W"
	WindNW WindDir = "NW"
)

// WindDirs lists the compass points clockwise from north.
var WindDirs = []WindDir{WindN, WindNE, WindE, WindSE, WindS, WindSW, WindW, WindNW}

// Neighborhood selects which neighbours can pass fire to a cell.
type Neighborhood string

const (
	Moore      Neighborhood = "moore"
	VonNeumann Neighborhood = "von_neumann"
)

// Neighborhoods lists the supported neighbourhoods.
var Neighborhoods = []Neighborhood{Moore, VonNeumann}

// Offsets returns the neighbour offsets for the neighbourhood. Unknown values
// fall back to Moore.
func (n Neighborhood) Offsets() []core.Offset {
	if n == VonNeumann {
		return core.VonNeumannOffsets
	}
	return core.MooreOffsets
}

var (
	// ErrInvalidSize is returned when a grid dimension is not positive.
	ErrInvalidSize = errors.New("grid dimensions must be positive")
	// ErrResizeRequiresNew is returned by SetConfig when the dimensions change.
	ErrResizeRequiresNew = errors.New("changing grid dimensions requires a new engine")
	// ErrUnknownKey is returned by Config.Set for keys it does not recognise.
	ErrUnknownKey = errors.New("unknown config key")
)

// Config holds the simulation parameters. Probability-bearing fields are
// clamped when used, so out-of-range values degrade to the nearest valid one.
type Config struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	Growth           float64 `json:"p" yaml:"p"`
	Lightning        float64 `json:"f" yaml:"f"`
	LightningEnabled bool    `json:"lightning_enabled" yaml:"lightning_enabled"`

	Humidity float64 `json:"humidity" yaml:"humidity"`

	WindEnabled  bool    `json:"wind_enabled" yaml:"wind_enabled"`
	WindDir      WindDir `json:"wind_dir" yaml:"wind_dir"`
	WindStrength float64 `json:"wind_strength" yaml:"wind_strength"`

	InitTreeDensity float64 `json:"init_tree_density" yaml:"init_tree_density"`
	ConiferRatio    float64 `json:"conifer_ratio" yaml:"conifer_ratio"`
	FlammDecid      float64 `json:"flamm_decid" yaml:"flamm_decid"`
	FlammConif      float64 `json:"flamm_conif" yaml:"flamm_conif"`

	Neighborhood Neighborhood `json:"neighborhood" yaml:"neighborhood"`

	// Seed makes runs reproducible. Nil seeds from entropy.
	Seed *int64 `json:"seed" yaml:"seed"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:            200,
		Height:           200,
		Growth:           0.01,
		Lightning:        0.001,
		LightningEnabled: true,
		Humidity:         0,
		WindEnabled:      false,
		WindDir:          WindE,
		WindStrength:     0.6,
		InitTreeDensity:  0.6,
		ConiferRatio:     0.5,
		FlammDecid:       0.85,
		FlammConif:       1.0,
		Neighborhood:     Moore,
	}
}

// SeedValue returns a pointer to v, for filling Config.Seed.
func SeedValue(v int64) *int64 { return &v }

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value
// pairs). Unparseable values and unknown keys are ignored.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	for k, v := range cfg {
		_ = c.Set(k, v)
	}
	return c
}

// Set assigns a single field from its textual form. Keys match the YAML
// field names; "w" and "h" are accepted as short forms of width and height.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	var err error
	switch key {
	case "w", "width":
		err = setPositive(&c.Width, value)
	case "h", "height":
		err = setPositive(&c.Height, value)
	case "seed":
		if value == "" || value == "random" {
			c.Seed = nil
			return nil
		}
		var s int64
		if s, err = strconv.ParseInt(value, 10, 64); err == nil {
			c.Seed = &s
		}
	case "p":
		err = setFloat(&c.Growth, value)
	case "f":
		err = setFloat(&c.Lightning, value)
	case "lightning_enabled":
		err = setBool(&c.LightningEnabled, value)
	case "humidity":
		err = setFloat(&c.Humidity, value)
	case "wind_enabled":
		err = setBool(&c.WindEnabled, value)
	case "wind_dir":
		c.WindDir = ParseWindDir(value)
	case "wind_strength":
		err = setFloat(&c.WindStrength, value)
	case "init_tree_density":
		err = setFloat(&c.InitTreeDensity, value)
	case "conifer_ratio":
		err = setFloat(&c.ConiferRatio, value)
	case "flamm_decid":
		err = setFloat(&c.FlammDecid, value)
	case "flamm_conif":
		err = setFloat(&c.FlammConif, value)
	case "neighborhood":
		c.Neighborhood = ParseNeighborhood(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("config %s=%q: %w", key, value, err)
	}
	return nil
}

func setPositive(dst *int, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	if n <= 0 {
		return ErrInvalidSize
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setBool(dst *bool, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// ParseWindDir reads a compass point case-insensitively. Anything else maps
// to east.
func ParseWindDir(s string) WindDir {
	d := WindDir(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := windVectors[d]; ok {
		return d
	}
	return WindE
}

// ParseNeighborhood reads a neighbourhood name. Anything unrecognised maps to
// Moore.
func ParseNeighborhood(s string) Neighborhood {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "von_neumann", "vonneumann", "von-neumann":
		return VonNeumann
	default:
		return Moore
	}
}

// rates holds the clamped, derived scalars one step works from.
type rates struct {
	humidity float64
	dryness  float64

	growth    float64
	lightning float64
	conifer   float64
	density   float64

	flammDecid float64
	flammConif float64

	offsets []core.Offset
	// windProb[i] is the wind spread probability for offsets[i].
	windProb []float64
}

func (c Config) rates() rates {
	humidity := core.Clamp(c.Humidity, 0, 1)
	dryness := 1 - humidity

	r := rates{
		humidity:   humidity,
		dryness:    dryness,
		growth:     core.Clamp(c.Growth*(0.5+humidity), 0, 1),
		conifer:    core.Clamp(c.ConiferRatio, 0, 1),
		density:    core.Clamp(c.InitTreeDensity, 0, 1),
		flammDecid: core.Clamp(c.FlammDecid, 0, 5),
		flammConif: core.Clamp(c.FlammConif, 0, 5),
		offsets:    c.Neighborhood.Offsets(),
	}
	if c.LightningEnabled {
		r.lightning = core.Clamp(c.Lightning*dryness, 0, 1)
	}
	r.windProb = make([]float64, len(r.offsets))
	for i, off := range r.offsets {
		r.windProb[i] = windSpread(c, off)
	}
	return r
}

// flammability returns the multiplier for a vegetation cell; ok is false for
// every other state.
func (r rates) flammability(c Cell) (float64, bool) {
	switch c {
	case Deciduous:
		return r.flammDecid, true
	case Conifer:
		return r.flammConif, true
	case Empty, Burning, Barrier:
		return 0, false
	default:
		return 0, false
	}
}
