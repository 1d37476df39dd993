package deck

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/sartorproj/tsdeck/internal/errors"
)

// Renderer displays a deck.
type Renderer interface {
	Deck(d *Deck) error
	Slide(index, total int, s *Slide) error
	Blocks(blocks []Block) error
	Failure(err error) error
}

// TerminalRenderer writes slides to a terminal with pterm.
type TerminalRenderer struct {
	w io.Writer
}

// NewTerminalRenderer returns a renderer writing to w.
func NewTerminalRenderer(w io.Writer) *TerminalRenderer {
	return &TerminalRenderer{w: w}
}

func (r *TerminalRenderer) print(s string) error {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(r.w, s)
	return err
}

func (r *TerminalRenderer) Deck(d *Deck) error {
	out := pterm.DefaultHeader.WithFullWidth().Sprint(d.Title)
	if d.Subtitle != "" {
		out += "\n" + pterm.Gray(d.Subtitle)
	}
	return r.print(out + "\n")
}

func (r *TerminalRenderer) Slide(index, total int, s *Slide) error {
	out := pterm.DefaultSection.Sprint(fmt.Sprintf("%s  %s", s.Title, pterm.Gray(fmt.Sprintf("[%d/%d]", index, total))))
	if s.Body != "" {
		out += pterm.DefaultParagraph.Sprint(strings.TrimSpace(s.Body)) + "\n"
	}
	if len(s.Bullets) > 0 {
		list, err := bulletList(s.Bullets)
		if err != nil {
			return err
		}
		out += "\n" + list
	}
	return r.print(out)
}

func (r *TerminalRenderer) Blocks(blocks []Block) error {
	for _, b := range blocks {
		var out string
		switch b := b.(type) {
		case Paragraph:
			out = pterm.DefaultParagraph.Sprint(string(b))
		case Bullets:
			list, err := bulletList(b)
			if err != nil {
				return err
			}
			out = list
		case Table:
			table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(b.Rows).Srender()
			if err != nil {
				return err
			}
			if b.Caption != "" {
				out = pterm.Bold.Sprint(b.Caption) + "\n"
			}
			out += table
		case Figure:
			out = pterm.Info.Sprintf("figure %s written to %s", b.Caption, b.Path)
		case Notice:
			if b.Success {
				out = pterm.Success.Sprint(b.Text)
			} else {
				out = pterm.Warning.Sprint(b.Text)
			}
		default:
			return errors.Newf("unsupported block %T", b)
		}
		if err := r.print(out); err != nil {
			return err
		}
	}
	return nil
}

func (r *TerminalRenderer) Failure(err error) error {
	out := pterm.Error.Sprint(err.Error())
	if hint := errors.FlattenHints(err); hint != "" {
		out += "\n" + pterm.Gray("hint: "+hint)
	}
	return r.print(out)
}

func bulletList(items []string) (string, error) {
	list := make([]pterm.BulletListItem, len(items))
	for i, item := range items {
		list[i] = pterm.BulletListItem{Level: 0, Text: item}
	}
	return pterm.DefaultBulletList.WithItems(list).Srender()
}
