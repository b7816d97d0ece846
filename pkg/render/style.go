package render

import "github.com/paulstuart/gollm/parlamento/pkg/votedetail"

// style is the fixed set of escape sequences used to decorate output.
type style struct {
	title      string
	label      string
	reset      string
	categories map[votedetail.Category]string
}

var ansi = style{
	title: "\x1b[1;34m",
	label: "\x1b[1;33m",
	reset: "\x1b[0m",
	categories: map[votedetail.Category]string{
		votedetail.InFavor:    "\x1b[1;32m",
		votedetail.Against:    "\x1b[1;31m",
		votedetail.Abstention: "\x1b[1;33m",
		votedetail.Absence:    "\x1b[1;90m",
	},
}

var plain = style{}

func (s style) paintTitle(text string) string {
	return s.wrap(s.title, text)
}

// paintLabel renders "Label:" in the label color.
func (s style) paintLabel(text string) string {
	return s.wrap(s.label, text+":")
}

func (s style) paintCategory(c votedetail.Category) string {
	return s.wrap(s.categories[c], string(c)+":")
}

func (s style) wrap(color, text string) string {
	if color == "" {
		return text
	}
	return color + text + s.reset
}
