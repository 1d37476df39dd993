package deck

import (
	"bufio"
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/sartorproj/tsdeck/internal/errors"
)

// ErrCellsFailed is returned when at least one cell failed during a run.
var ErrCellsFailed = errors.New("cells failed")

// ErrCellPanicked marks a cell that panicked instead of returning an error.
var ErrCellPanicked = errors.New("cell panicked")

// Presenter walks a deck slide by slide, running each slide's cell after
// the previous one has finished.
type Presenter struct {
	Deck     *Deck
	Session  *Session
	Renderer Renderer

	// Interactive waits for a line on In before each slide after the first.
	Interactive bool
	In          io.Reader

	// From is the 1-based slide to start at. Earlier load-data cells still
	// run so later cells have data.
	From int

	Logger *zap.SugaredLogger
}

// Run presents the deck. A failing cell is reported through the renderer
// and the presentation continues; the returned error then lists the
// failed slides.
func (p *Presenter) Run(ctx context.Context) error {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if p.Deck == nil || len(p.Deck.Slides) == 0 {
		return ErrEmptyDeck
	}
	total := len(p.Deck.Slides)
	from := max(p.From, 1)
	if from > total {
		return errors.WithHintf(errors.Newf("deck has %d slides, cannot start at %d", total, from),
			"use a value between 1 and %d", total)
	}

	if err := p.replay(ctx, from); err != nil {
		return err
	}
	if err := p.Renderer.Deck(p.Deck); err != nil {
		return errors.Wrap(err, "render deck")
	}

	var in *bufio.Reader
	if p.Interactive && p.In != nil {
		in = bufio.NewReader(p.In)
	}

	var failed []int
	for i := from - 1; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if in != nil && i > from-1 {
			if _, err := in.ReadString('\n'); err != nil {
				if errors.Is(err, io.EOF) {
					in = nil
				} else {
					return errors.Wrap(err, "read input")
				}
			}
		}

		slide := &p.Deck.Slides[i]
		if err := p.Renderer.Slide(i+1, total, slide); err != nil {
			return errors.Wrapf(err, "render slide %d", i+1)
		}
		if slide.Cell == "" {
			continue
		}

		start := time.Now()
		blocks, err := p.runCell(ctx, slide)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warnw("Cell failed", "slide", i+1, "cell", slide.Cell, "error", err)
			failed = append(failed, i+1)
			if rerr := p.Renderer.Failure(err); rerr != nil {
				return errors.Wrapf(rerr, "render slide %d", i+1)
			}
			continue
		}
		logger.Debugw("Cell finished", "slide", i+1, "cell", slide.Cell, "duration", time.Since(start))
		if err := p.Renderer.Blocks(blocks); err != nil {
			return errors.Wrapf(err, "render slide %d", i+1)
		}
	}

	if len(failed) > 0 {
		return errors.Wrapf(ErrCellsFailed, "slides %v", failed)
	}
	return nil
}

// replay silently runs the load-data cells of the slides before from.
func (p *Presenter) replay(ctx context.Context, from int) error {
	for i := 0; i < from-1; i++ {
		slide := &p.Deck.Slides[i]
		if slide.Cell != "load-data" {
			continue
		}
		if _, err := p.runCell(ctx, slide); err != nil {
			return errors.Wrapf(err, "slide %d", i+1)
		}
	}
	return nil
}

func (p *Presenter) runCell(ctx context.Context, slide *Slide) (blocks []Block, err error) {
	cell, ok := Lookup(slide.Cell)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCell, "%q", slide.Cell)
	}
	defer func() {
		if r := recover(); r != nil {
			blocks, err = nil, errors.Wrapf(ErrCellPanicked, "%s: %v", slide.Cell, r)
		}
	}()
	return cell(ctx, p.Session, Args(slide.Args))
}
