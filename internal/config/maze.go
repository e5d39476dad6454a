package config

import (
	"errors"
	"fmt"
	"strings"
)

// Bounds applied to maze settings before they reach the generator.
const (
	MinDimension = 3
	MaxDimension = 100
	MinCellSize  = 1.0
	MaxCellSize  = 4.0
)

// ErrUnknownDifficulty is returned by ParseDifficulty for unrecognized names.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulty names a maze size preset.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyHard     Difficulty = "hard"
	DifficultySpeedrun Difficulty = "speedrun"

	// DifficultyCustom labels dimensions that match no preset. It cannot be
	// selected, only reached by resizing.
	DifficultyCustom Difficulty = "custom"
)

// Difficulties returns every preset in menu order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyHard, DifficultySpeedrun}
}

// ParseDifficulty converts a case-insensitive name into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Difficulties() {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// MazeConfig holds the dimensions handed to the generator and the cell size
// handed to renderers.
type MazeConfig struct {
	// Width is the number of cells along x, in [3, 100].
	Width int `yaml:"width"`

	// Length is the number of cells along y, in [3, 100].
	Length int `yaml:"length"`

	// CellSize is the edge length of one cell in render units, in [1, 4].
	CellSize float64 `yaml:"cell_size"`

	// Difficulty records which preset the dimensions came from.
	Difficulty Difficulty `yaml:"difficulty"`
}

// PresetFor returns the maze settings of a difficulty preset.
func PresetFor(d Difficulty) MazeConfig {
	switch d {
	case DifficultyHard:
		return MazeConfig{Width: 40, Length: 40, CellSize: 1, Difficulty: DifficultyHard}
	case DifficultySpeedrun:
		return MazeConfig{Width: 10, Length: 10, CellSize: 1, Difficulty: DifficultySpeedrun}
	default:
		return MazeConfig{Width: 20, Length: 20, CellSize: 1, Difficulty: DifficultyEasy}
	}
}

// ApplyPreset replaces the dimensions and cell size with the preset's.
func (m *MazeConfig) ApplyPreset(d Difficulty) {
	*m = PresetFor(d)
}

// SetWidth updates the width if it is within bounds. Out-of-range values are
// ignored and false is returned.
func (m *MazeConfig) SetWidth(width int) bool {
	if width < MinDimension || width > MaxDimension {
		return false
	}
	m.Width = width
	m.relabel()
	return true
}

// SetLength updates the length if it is within bounds.
func (m *MazeConfig) SetLength(length int) bool {
	if length < MinDimension || length > MaxDimension {
		return false
	}
	m.Length = length
	m.relabel()
	return true
}

// Resize applies explicit dimensions, clamping them into range. A zero
// dimension keeps its current value.
func (m *MazeConfig) Resize(width, length int) {
	if width != 0 {
		m.Width = ClampDimension(width)
	}
	if length != 0 {
		m.Length = ClampDimension(length)
	}
	m.relabel()
}

// relabel marks the settings custom once the dimensions leave the preset's.
func (m *MazeConfig) relabel() {
	if m.Difficulty == DifficultyCustom {
		return
	}
	p := PresetFor(m.Difficulty)
	if m.Width != p.Width || m.Length != p.Length {
		m.Difficulty = DifficultyCustom
	}
}

// SetCellSize updates the cell size if it is within bounds.
func (m *MazeConfig) SetCellSize(size float64) bool {
	if size < MinCellSize || size > MaxCellSize {
		return false
	}
	m.CellSize = size
	return true
}

// Clamp forces every field into its allowed range. Unknown difficulties
// fall back to easy, and dimensions that differ from the preset are
// labelled custom.
func (m *MazeConfig) Clamp() {
	m.Width = ClampDimension(m.Width)
	m.Length = ClampDimension(m.Length)

	switch {
	case m.CellSize < MinCellSize:
		m.CellSize = MinCellSize
	case m.CellSize > MaxCellSize:
		m.CellSize = MaxCellSize
	}

	if _, err := ParseDifficulty(string(m.Difficulty)); err != nil && m.Difficulty != DifficultyCustom {
		m.Difficulty = DifficultyEasy
	}
	m.relabel()
}

// ClampDimension bounds a width or length to [MinDimension, MaxDimension].
func ClampDimension(n int) int {
	if n < MinDimension {
		return MinDimension
	}
	if n > MaxDimension {
		return MaxDimension
	}
	return n
}
