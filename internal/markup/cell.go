package markup

import "strings"

// ListState is the list state of a Cell.
type ListState int

const (
	// NotInList means no list is open.
	NotInList ListState = iota
	// InList means a <ul> or <ol> has been opened and not yet closed.
	InList
)

func (s ListState) String() string {
	if s == InList {
		return "in-list"
	}
	return "not-in-list"
}

// IsListStyle reports whether a paragraph style name denotes a list item.
func IsListStyle(style string) bool {
	return strings.HasPrefix(style, "List")
}

func isBullet(style string) bool {
	return strings.Contains(style, "Bullet")
}

// Cell accumulates the paragraphs of one table value cell into markup,
// wrapping consecutive list paragraphs in <ul>/<ol>. The zero value is an
// empty cell in the NotInList state.
type Cell struct {
	state ListState
	// listStyle is the style of the most recent list paragraph; it picks the
	// closing tag, so a list whose style changes mid-way can close with a
	// tag that does not match its opening one.
	listStyle string
	b         strings.Builder
}

// State returns the current list state.
func (c *Cell) State() ListState {
	return c.state
}

// Add appends a paragraph. last must be true for the final paragraph of the
// cell; plain paragraphs are followed by <br> otherwise.
func (c *Cell) Add(p Paragraph, last bool) {
	text := Convert(p.Runs)

	if IsListStyle(p.Style) {
		if c.state == NotInList {
			if isBullet(p.Style) {
				c.b.WriteString("<ul>")
			} else {
				c.b.WriteString("<ol>")
			}
			c.state = InList
		}
		c.listStyle = p.Style
		c.b.WriteString("<li>")
		c.b.WriteString(text)
		c.b.WriteString("</li>")
		return
	}

	c.closeList()
	c.b.WriteString(text)
	if !last {
		c.b.WriteString("<br>")
	}
}

// String closes a list left open at the end of the cell and returns the markup.
func (c *Cell) String() string {
	c.closeList()
	return c.b.String()
}

func (c *Cell) closeList() {
	if c.state != InList {
		return
	}
	if isBullet(c.listStyle) {
		c.b.WriteString("</ul>")
	} else {
		c.b.WriteString("</ol>")
	}
	c.state = NotInList
}

// RenderCell converts all paragraphs of a value cell.
func RenderCell(paragraphs []Paragraph) string {
	var c Cell
	for i, p := range paragraphs {
		c.Add(p, i == len(paragraphs)-1)
	}
	return c.String()
}
