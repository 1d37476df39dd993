package deck

// Block is one piece of cell output.
type Block interface {
	block()
}

// Paragraph is free text.
type Paragraph string

// Bullets is an unordered list.
type Bullets []string

// Table is a grid of cells whose first row is the header.
type Table struct {
	Caption string
	Rows    [][]string
}

// Figure is an image written to disk.
type Figure struct {
	Path    string
	Caption string
}

// Notice is a highlighted one-line conclusion.
type Notice struct {
	Text    string
	Success bool
}

func (Paragraph) block() {}
func (Bullets) block()   {}
func (Table) block()     {}
func (Figure) block()    {}
func (Notice) block()    {}
