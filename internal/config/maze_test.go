package config

import "testing"

func TestPresets(t *testing.T) {
	tests := []struct {
		difficulty    Difficulty
		width, length int
	}{
		{DifficultyEasy, 20, 20},
		{DifficultyHard, 40, 40},
		{DifficultySpeedrun, 10, 10},
	}

	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			m := MazeConfig{Width: 77, Length: 3, CellSize: 4}
			m.ApplyPreset(tt.difficulty)
			if m.Width != tt.width || m.Length != tt.length {
				t.Errorf("preset %s = %dx%d, want %dx%d", tt.difficulty, m.Width, m.Length, tt.width, tt.length)
			}
			if m.CellSize != 1 {
				t.Errorf("preset %s cell size = %v, want 1", tt.difficulty, m.CellSize)
			}
			if m.Difficulty != tt.difficulty {
				t.Errorf("preset difficulty = %q, want %q", m.Difficulty, tt.difficulty)
			}
		})
	}
}

func TestSetWidthIgnoresOutOfRange(t *testing.T) {
	m := PresetFor(DifficultyEasy)

	tests := []struct {
		value int
		ok    bool
		want  int
	}{
		{3, true, 3},
		{100, true, 100},
		{2, false, 100},
		{101, false, 100},
		{0, false, 100},
		{-5, false, 100},
		{50, true, 50},
	}

	for _, tt := range tests {
		if got := m.SetWidth(tt.value); got != tt.ok {
			t.Errorf("SetWidth(%d) = %v, want %v", tt.value, got, tt.ok)
		}
		if m.Width != tt.want {
			t.Errorf("after SetWidth(%d) width = %d, want %d", tt.value, m.Width, tt.want)
		}
	}
}

func TestSetLengthAndCellSize(t *testing.T) {
	m := PresetFor(DifficultyEasy)

	if m.SetLength(101) {
		t.Error("SetLength(101) accepted")
	}
	if !m.SetLength(64) || m.Length != 64 {
		t.Errorf("SetLength(64) not applied, length = %d", m.Length)
	}

	if m.SetCellSize(0.5) || m.SetCellSize(4.5) {
		t.Error("out-of-range cell size accepted")
	}
	if !m.SetCellSize(1.5) || m.CellSize != 1.5 {
		t.Errorf("SetCellSize(1.5) not applied, size = %v", m.CellSize)
	}
}

func TestClampDimension(t *testing.T) {
	tests := []struct{ in, want int }{
		{-1, 3}, {0, 3}, {3, 3}, {42, 42}, {100, 100}, {1000, 100},
	}
	for _, tt := range tests {
		if got := ClampDimension(tt.in); got != tt.want {
			t.Errorf("ClampDimension(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestResizeLabelsCustom(t *testing.T) {
	tests := []struct {
		name          string
		start         Difficulty
		width, length int
		wantW, wantL  int
		want          Difficulty
	}{
		{"no change", DifficultyHard, 0, 0, 40, 40, DifficultyHard},
		{"same as preset", DifficultyEasy, 20, 20, 20, 20, DifficultyEasy},
		{"width only", DifficultySpeedrun, 12, 0, 12, 10, DifficultyCustom},
		{"clamped", DifficultyEasy, 1, 500, 3, 100, DifficultyCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := PresetFor(tt.start)
			m.Resize(tt.width, tt.length)
			if m.Width != tt.wantW || m.Length != tt.wantL {
				t.Errorf("got %dx%d, want %dx%d", m.Width, m.Length, tt.wantW, tt.wantL)
			}
			if m.Difficulty != tt.want {
				t.Errorf("difficulty = %q, want %q", m.Difficulty, tt.want)
			}
		})
	}
}

func TestClampKeepsCustomAndFallsBack(t *testing.T) {
	m := MazeConfig{Width: 20, Length: 20, CellSize: 1, Difficulty: "nightmare"}
	m.Clamp()
	if m.Difficulty != DifficultyEasy {
		t.Errorf("unknown difficulty at preset size = %q, want easy", m.Difficulty)
	}

	m = MazeConfig{Width: 33, Length: 20, CellSize: 1, Difficulty: DifficultyCustom}
	m.Clamp()
	if m.Difficulty != DifficultyCustom {
		t.Errorf("custom label lost on clamp: %q", m.Difficulty)
	}

	m = PresetFor(DifficultyHard)
	if !m.SetWidth(41) || m.Difficulty != DifficultyCustom {
		t.Errorf("SetWidth(41) on hard left difficulty %q", m.Difficulty)
	}
	m.ApplyPreset(DifficultyHard)
	if m.Difficulty != DifficultyHard {
		t.Errorf("ApplyPreset did not restore the label, got %q", m.Difficulty)
	}
}
