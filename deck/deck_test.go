package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/tsdeck/internal/errors"
)

func TestBuiltinDeck(t *testing.T) {
	d, err := Builtin()
	require.NoError(t, err)

	assert.NotEmpty(t, d.Title)
	assert.Equal(t, "load-data", firstCell(d))

	seen := map[string]bool{}
	for _, s := range d.Slides {
		if s.Cell != "" {
			seen[s.Cell] = true
		}
	}
	for _, name := range Cells() {
		assert.True(t, seen[name], "built-in deck never uses %s", name)
	}
}

func firstCell(d *Deck) string {
	for _, s := range d.Slides {
		if s.Cell != "" {
			return s.Cell
		}
	}
	return ""
}

func TestCellsSorted(t *testing.T) {
	names := Cells()
	assert.IsNonDecreasing(t, names)
	_, ok := Lookup("fit")
	assert.True(t, ok)
	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		is   error
	}{
		{"empty", "title: x\nslides: []\n", ErrEmptyDeck},
		{"unknown cell", "slides:\n  - title: a\n    cell: magic\n", ErrUnknownCell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.is))
		})
	}

	_, err := Parse([]byte("slides:\n  - body: no title\n"))
	assert.ErrorContains(t, err, "slide 1 has no title")

	_, err = Parse([]byte("slides: [unclosed"))
	assert.ErrorContains(t, err, "decode yaml")
}

func TestParseUnknownCellHint(t *testing.T) {
	_, err := Parse([]byte("slides:\n  - title: a\n    cell: magic\n"))
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "stationarity")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yaml")
	data := `title: Short
slides:
  - title: Data
    cell: load-data
    args:
      column: unemp
  - title: End
    bullets: [one, two]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	require.Len(t, d.Slides, 2)
	assert.Equal(t, "unemp", d.Slides[0].Args["column"])
	assert.Equal(t, []string{"one", "two"}, d.Slides[1].Bullets)

	builtin, err := Load("")
	require.NoError(t, err)
	assert.Greater(t, len(builtin.Slides), 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestArgs(t *testing.T) {
	a := Args{"n": " 5 ", "x": "0.25", "bad": "five", "blank": " "}

	assert.Equal(t, "5", a.String("n", "d"))
	assert.Equal(t, "d", a.String("blank", "d"))
	assert.Equal(t, "d", a.String("missing", "d"))

	n, err := a.Int("n", 1)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = a.Int("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = a.Int("bad", 0)
	assert.True(t, errors.Is(err, ErrInvalidArg))

	f, err := a.Float("x", 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, f, 1e-12)

	_, err = a.Float("bad", 0)
	assert.True(t, errors.Is(err, ErrInvalidArg))
}
