package qrcode

import (
	"fmt"
	"strings"

	qrgen "github.com/skip2/go-qrcode"
)

// Level is a QR error correction level.
type Level string

const (
	LevelL Level = "L" // ~7% recovery
	LevelM Level = "M" // ~15% recovery
	LevelQ Level = "Q" // ~25% recovery
	LevelH Level = "H" // ~30% recovery
)

const (
	DefaultBoxSize = 10
	DefaultBorder  = 4
	DefaultLevel   = LevelM

	MaxBoxSize = 100
	MaxBorder  = 64
)

// byteCapacity is the byte-mode capacity of a version 40 symbol.
var byteCapacity = map[Level]int{
	LevelL: 2953,
	LevelM: 2331,
	LevelQ: 1663,
	LevelH: 1273,
}

// Options control how a symbol is rendered. The zero Level means LevelM.
type Options struct {
	BoxSize         int   `env:"QR_BOX_SIZE" envDefault:"10" json:"box_size"`
	Border          int   `env:"QR_BORDER" envDefault:"4" json:"border"`
	ErrorCorrection Level `env:"QR_ERROR_CORRECTION" envDefault:"M" json:"error_correction"`
}

func DefaultOptions() Options {
	return Options{
		BoxSize:         DefaultBoxSize,
		Border:          DefaultBorder,
		ErrorCorrection: DefaultLevel,
	}
}

// Validate checks ranges and normalises the level.
func (o Options) Validate() (Options, error) {
	if o.BoxSize < 1 || o.BoxSize > MaxBoxSize {
		return o, fmt.Errorf("%w: box size %d out of range 1..%d", ErrInvalidOptions, o.BoxSize, MaxBoxSize)
	}
	if o.Border < 0 || o.Border > MaxBorder {
		return o, fmt.Errorf("%w: border %d out of range 0..%d", ErrInvalidOptions, o.Border, MaxBorder)
	}
	level, err := ParseLevel(string(o.ErrorCorrection))
	if err != nil {
		return o, err
	}
	o.ErrorCorrection = level
	return o, nil
}

// ParseLevel accepts L/M/Q/H or low/medium/quartile/high, case-insensitive.
// An empty string yields DefaultLevel.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return DefaultLevel, nil
	case "L", "LOW":
		return LevelL, nil
	case "M", "MEDIUM":
		return LevelM, nil
	case "Q", "QUARTILE":
		return LevelQ, nil
	case "H", "HIGH":
		return LevelH, nil
	}
	return "", fmt.Errorf("%w: unknown error correction level %q", ErrInvalidOptions, s)
}

// Capacity returns the longest content, in bytes, that Encode accepts at level.
func Capacity(level Level) int {
	if level == "" {
		level = DefaultLevel
	}
	return byteCapacity[level]
}

func (l Level) recovery() qrgen.RecoveryLevel {
	switch l {
	case LevelL:
		return qrgen.Low
	case LevelQ:
		return qrgen.High
	case LevelH:
		return qrgen.Highest
	default:
		return qrgen.Medium
	}
}
