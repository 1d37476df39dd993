package deck

import (
	_ "embed"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sartorproj/tsdeck/internal/errors"
)

//go:embed slides.yaml
var builtinDeck []byte

var (
	// ErrEmptyDeck is returned for a deck without slides.
	ErrEmptyDeck = errors.New("deck has no slides")
	// ErrUnknownCell is returned when a slide names a cell that is not registered.
	ErrUnknownCell = errors.New("unknown cell")
)

// Deck is an ordered list of slides.
type Deck struct {
	Title    string  `yaml:"title"`
	Subtitle string  `yaml:"subtitle"`
	Slides   []Slide `yaml:"slides"`
}

// Slide is one page of the deck. Cell names an optional computation whose
// output follows the body.
type Slide struct {
	Title   string            `yaml:"title"`
	Body    string            `yaml:"body"`
	Bullets []string          `yaml:"bullets"`
	Cell    string            `yaml:"cell"`
	Args    map[string]string `yaml:"args"`
}

// Builtin returns the deck compiled into the binary.
func Builtin() (*Deck, error) {
	d, err := Parse(builtinDeck)
	if err != nil {
		return nil, errors.Wrap(err, "built-in deck")
	}
	return d, nil
}

// Load reads a deck from a YAML file, or the built-in deck when path is empty.
func Load(path string) (*Deck, error) {
	if path == "" {
		return Builtin()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read deck %s", path)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "deck %s", path)
	}
	return d, nil
}

// Parse decodes and validates a YAML deck.
func Parse(data []byte) (*Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	if len(d.Slides) == 0 {
		return nil, ErrEmptyDeck
	}
	for i, s := range d.Slides {
		if strings.TrimSpace(s.Title) == "" {
			return nil, errors.Newf("slide %d has no title", i+1)
		}
		if s.Cell == "" {
			continue
		}
		if _, ok := Lookup(s.Cell); !ok {
			return nil, errors.WithHintf(
				errors.Wrapf(ErrUnknownCell, "slide %d %q uses %q", i+1, s.Title, s.Cell),
				"registered cells: %s", strings.Join(Cells(), ", "))
		}
	}
	return &d, nil
}
