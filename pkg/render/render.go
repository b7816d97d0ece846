// Package render turns initiative records into the human-readable text shown
// to the operator. Rendering is a pure function of its input: the same
// records and options always produce the same bytes.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/paulstuart/gollm/parlamento/pkg/model"
	"github.com/paulstuart/gollm/parlamento/pkg/votedetail"
)

const (
	header          = "=== PARLIAMENTARY INITIATIVES ==="
	noInitiatives   = "No initiatives found."
	listAttachments = 3
)

var separator = strings.Repeat("=", 50)

// Renderer writes initiatives to a text sink.
type Renderer struct {
	// Verbose adds type, phase, committee, publication and attachment details.
	Verbose bool
	// Color decorates titles, labels and vote categories with ANSI escapes.
	Color bool
	// Parser splits vote details; nil uses the four standard categories.
	Parser *votedetail.Parser
}

// List writes every initiative in order with its one-based index, followed by
// the total count. An empty list produces a single informational line.
func (r Renderer) List(w io.Writer, initiatives []model.Initiative) error {
	p := r.printer(w)
	if len(initiatives) == 0 {
		p.line(noInitiatives)
		return p.err
	}

	p.line("")
	p.line(header)
	p.line("")
	for i, ini := range initiatives {
		p.line(p.style.paintTitle(fmt.Sprintf("[%d] %s", i+1, ini.DisplayTitle())))
		r.body(p, ini, listAttachments)
		p.line("")
		p.line(separator)
		p.line("")
	}
	p.linef("Total initiatives: %d", len(initiatives))
	return p.err
}

// Single writes one initiative without index, separator or total, showing all
// of its attachments.
func (r Renderer) Single(w io.Writer, ini model.Initiative) error {
	p := r.printer(w)
	p.line(p.style.paintTitle(ini.DisplayTitle()))
	r.body(p, ini, -1)
	return p.err
}

// body writes everything below the title line. maxAttachments < 0 shows all.
func (r Renderer) body(p *printer, ini model.Initiative, maxAttachments int) {
	if r.Verbose && ini.TypeDesc != "" {
		p.linef("%s %s", p.style.paintLabel("Type"), ini.TypeDesc)
	}
	p.linef("%s %s", p.style.paintLabel("Date"), model.OrNA(ini.TermStart))

	if len(ini.Groups) > 0 {
		p.line(p.style.paintLabel("Authors"))
		for _, g := range ini.Groups {
			p.linef("  - %s", g.GP)
		}
	}

	for _, ev := range ini.Events {
		r.event(p, ev)
	}

	if r.Verbose && len(ini.Attachments) > 0 {
		r.attachments(p, ini.Attachments, maxAttachments)
	}
}

func (r Renderer) event(p *printer, ev model.Event) {
	if r.Verbose && ev.Phase != "" && ev.PhaseDate != "" {
		p.linef("%s %s (%s)", p.style.paintLabel("Phase"), ev.Phase, ev.PhaseDate)
	}

	if len(ev.Votes) > 0 {
		p.line(p.style.paintLabel("Voting"))
		for _, v := range ev.Votes {
			r.vote(p, v, "  ", true)
		}
	}

	if !r.Verbose {
		return
	}

	for _, c := range ev.Committees {
		if c.Name != "" {
			p.linef("%s %s (%s)", p.style.paintLabel("Committee"), c.Name, model.OrNA(c.Sigla))
		}
		if len(c.Votes) > 0 {
			p.linef("  %s", p.style.paintLabel("Committee Voting"))
			for _, v := range c.Votes {
				r.vote(p, v, "    ", false)
			}
		}
	}

	if len(ev.Publications) > 0 {
		p.line(p.style.paintLabel("Publications"))
		for _, pub := range ev.Publications {
			p.linef("  - Date: %s", model.OrNA(pub.Date))
			p.linef("    Type: %s", model.OrNA(pub.Type))
			if pub.Note != "" {
				p.linef("    Note: %s", pub.Note)
			}
			if pub.URL != "" {
				p.linef("    URL: %s", pub.URL)
			}
		}
	}
}

// vote writes a vote as a list item at indent. Absences are only listed for
// plenary votes.
func (r Renderer) vote(p *printer, v model.Vote, indent string, absences bool) {
	inner := indent + "  "
	p.linef("%s- Date: %s", indent, model.OrNA(v.Date))
	p.linef("%sResult: %s", inner, model.OrNA(string(v.Result)))
	if v.Detail != "" {
		r.voteDetail(p, v.Detail, inner)
	}
	if absences && len(v.Absences) > 0 {
		p.linef("%sAbsences: %s", inner, strings.Join(v.Absences, ", "))
	}
}

func (r Renderer) voteDetail(p *printer, detail, indent string) {
	parse := votedetail.Parse
	if r.Parser != nil {
		parse = r.Parser.Parse
	}
	sections, ok := parse(detail)
	if !ok {
		if text := votedetail.Plain(detail); text != "" {
			p.linef("%s%s", indent, text)
		}
		return
	}
	for _, s := range sections {
		p.linef("%s%s %s", indent, p.style.paintCategory(s.Category), strings.Join(s.Parties, ", "))
	}
}

func (r Renderer) attachments(p *printer, attachments []model.Attachment, limit int) {
	shown := attachments
	if limit >= 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	p.line(p.style.paintLabel("Attachments"))
	for _, a := range shown {
		p.linef("  - %s", model.FirstNonEmpty(a.Name, "Unnamed attachment"))
		p.linef("    URL: %s", model.OrNA(a.File))
	}
	if rest := len(attachments) - len(shown); rest > 0 {
		p.linef("  ...and %d more attachments", rest)
	}
}

func (r Renderer) printer(w io.Writer) *printer {
	st := plain
	if r.Color {
		st = ansi
	}
	return &printer{w: w, style: st}
}

// printer writes lines to w and keeps the first write error; later writes
// become no-ops.
type printer struct {
	w     io.Writer
	style style
	err   error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s+"\n")
}

func (p *printer) linef(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}
