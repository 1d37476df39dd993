package deck

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/tsdeck/internal/errors"
)

type fakeRenderer struct {
	events []string
}

func (f *fakeRenderer) Deck(d *Deck) error {
	f.events = append(f.events, "deck:"+d.Title)
	return nil
}

func (f *fakeRenderer) Slide(index, total int, s *Slide) error {
	f.events = append(f.events, "slide:"+s.Title)
	return nil
}

func (f *fakeRenderer) Blocks(blocks []Block) error {
	f.events = append(f.events, "blocks")
	return nil
}

func (f *fakeRenderer) Failure(err error) error {
	f.events = append(f.events, "failure")
	return nil
}

func testDeck(t *testing.T) *Deck {
	t.Helper()
	d, err := Parse([]byte(`title: Test
slides:
  - title: Intro
  - title: Early
    cell: stationarity
  - title: Data
    cell: load-data
  - title: Check
    cell: stationarity
  - title: Refs
    cell: references
`))
	require.NoError(t, err)
	return d
}

func TestPresenterContinuesAfterFailure(t *testing.T) {
	r := &fakeRenderer{}
	p := &Presenter{
		Deck:     testDeck(t),
		Session:  NewSession(testConfig(""), nil, nil),
		Renderer: r,
	}

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCellsFailed))
	assert.Contains(t, err.Error(), "[2]")

	assert.Equal(t, []string{
		"deck:Test",
		"slide:Intro",
		"slide:Early", "failure",
		"slide:Data", "blocks",
		"slide:Check", "blocks",
		"slide:Refs", "blocks",
	}, r.events)
}

func TestPresenterFromReplaysLoadData(t *testing.T) {
	r := &fakeRenderer{}
	p := &Presenter{
		Deck:     testDeck(t),
		Session:  NewSession(testConfig(""), nil, nil),
		Renderer: r,
		From:     4,
	}

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{"deck:Test", "slide:Check", "blocks", "slide:Refs", "blocks"}, r.events)
	assert.NotNil(t, p.Session.Series)

	p.From = 9
	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "between 1 and 5")
}

func TestPresenterInteractive(t *testing.T) {
	r := &fakeRenderer{}
	in := strings.NewReader("\n")
	p := &Presenter{
		Deck:        testDeck(t),
		Session:     NewSession(testConfig(""), nil, nil),
		Renderer:    r,
		Interactive: true,
		In:          in,
		From:        3,
	}

	// Input runs out after the first key press; the rest plays through.
	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, 0, in.Len())
	assert.Contains(t, r.events, "slide:Refs")
}

func TestPresenterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Presenter{
		Deck:     testDeck(t),
		Session:  NewSession(testConfig(""), nil, nil),
		Renderer: &fakeRenderer{},
	}
	assert.ErrorIs(t, p.Run(ctx), context.Canceled)
}

func TestPresenterEmptyDeck(t *testing.T) {
	p := &Presenter{Deck: &Deck{}, Renderer: &fakeRenderer{}}
	assert.ErrorIs(t, p.Run(context.Background()), ErrEmptyDeck)
}

func TestTerminalRenderer(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	r := NewTerminalRenderer(&buf)

	require.NoError(t, r.Deck(&Deck{Title: "Forecasting", Subtitle: "in Go"}))
	require.NoError(t, r.Slide(2, 7, &Slide{Title: "Stationarity", Body: "Mean and variance.", Bullets: []string{"first point"}}))
	require.NoError(t, r.Blocks([]Block{
		Paragraph("plain text"),
		Bullets{"alpha"},
		Table{Caption: "Coefficients", Rows: [][]string{{"name", "coef"}, {"ar.L1", "0.5"}}},
		Figure{Path: "figures/x.png", Caption: "series"},
		Notice{Text: "looks stationary", Success: true},
		Notice{Text: "needs differencing"},
	}))
	require.NoError(t, r.Failure(errors.WithHint(errors.New("boom"), "load data first")))

	out := buf.String()
	for _, want := range []string{
		"Forecasting", "in Go", "Stationarity", "[2/7]", "first point",
		"plain text", "alpha", "Coefficients", "ar.L1", "figures/x.png",
		"looks stationary", "needs differencing", "boom", "hint: load data first",
	} {
		assert.Contains(t, out, want)
	}
}

func TestPresenterRecoversPanickingCell(t *testing.T) {
	registry["explode"] = func(context.Context, *Session, Args) ([]Block, error) {
		panic("index out of range")
	}
	t.Cleanup(func() { delete(registry, "explode") })

	d, err := Parse([]byte(`title: Test
slides:
  - title: Boom
    cell: explode
  - title: Bad top
    cell: grid-search
    args:
      top: "-1"
  - title: Refs
    cell: references
`))
	require.NoError(t, err)

	r := &fakeRenderer{}
	p := &Presenter{Deck: d, Session: NewSession(testConfig(""), nil, nil), Renderer: r}

	err = p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCellsFailed))
	assert.Contains(t, err.Error(), "[1 2]")
	assert.Equal(t, []string{
		"deck:Test",
		"slide:Boom", "failure",
		"slide:Bad top", "failure",
		"slide:Refs", "blocks",
	}, r.events)
}
