// Package votedetail extracts per-category party lists from the annotated
// free text that records how each parliamentary group voted.
//
// The text looks like
//
//	A Favor: <I>PS</I>, <I>BE</I><BR>Contra: <I>PSD</I><BR>Abstenção: <I>CH</I>
//
// where the keyword of a category opens a segment that runs until the nearest
// following keyword of any other category, and party names are the spans
// wrapped in <I>...</I> inside that segment.
package votedetail

import (
	"regexp"
	"strings"
)

// Category is the label of a vote-detail section.
type Category string

const (
	InFavor    Category = "A Favor"
	Against    Category = "Contra"
	Abstention Category = "Abstenção"
	Absence    Category = "Ausência"
)

// Categories lists the four sections in display order.
var Categories = []Category{InFavor, Against, Abstention, Absence}

var (
	partyRe = regexp.MustCompile(`(?i)<I>\s*([^<]+)\s*</I>`)
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`[\s\p{Z}]+`)
)

// Section is the ordered list of parties found under one category.
type Section struct {
	Category Category
	Parties  []string
}

// Sections is the structured form of a vote detail. Only categories with at
// least one party are present, in the order the parser's categories were given.
type Sections []Section

// Get returns the parties recorded under c.
func (s Sections) Get(c Category) ([]string, bool) {
	for _, sec := range s {
		if sec.Category == c {
			return sec.Parties, true
		}
	}
	return nil, false
}

// Map converts the sections into a category to parties mapping.
func (s Sections) Map() map[Category][]string {
	m := make(map[Category][]string, len(s))
	for _, sec := range s {
		m[sec.Category] = sec.Parties
	}
	return m
}

// Parser splits vote details into category sections.
type Parser struct {
	categories []Category
	segments   []segment
}

type segment struct {
	category Category
	start    string
	stop     *regexp.Regexp
}

// New returns a parser for the given categories, or for the four standard
// categories when none are given. Each category's segment is terminated by the
// keyword of any of the other categories.
func New(categories ...Category) *Parser {
	if len(categories) == 0 {
		categories = Categories
	}
	p := &Parser{categories: categories}
	for _, c := range categories {
		var others []string
		for _, o := range categories {
			if o != c {
				others = append(others, regexp.QuoteMeta(string(o)+":"))
			}
		}
		seg := segment{category: c, start: string(c) + ":"}
		if len(others) > 0 {
			seg.stop = regexp.MustCompile(`(?i)` + strings.Join(others, "|"))
		}
		p.segments = append(p.segments, seg)
	}
	return p
}

// Categories returns the categories the parser recognises.
func (p *Parser) Categories() []Category {
	return p.categories
}

// Parse extracts the party sections of detail. ok is false when no category
// yielded any party, in which case the caller should display Plain(detail).
func (p *Parser) Parse(detail string) (sections Sections, ok bool) {
	for _, seg := range p.segments {
		body, found := seg.body(detail)
		if !found {
			continue
		}
		if parties := extractParties(body); len(parties) > 0 {
			sections = append(sections, Section{Category: seg.category, Parties: parties})
		}
	}
	return sections, len(sections) > 0
}

// body returns the text between the segment keyword and the nearest following
// keyword of another category, or the end of detail.
func (s segment) body(detail string) (string, bool) {
	i := strings.Index(detail, s.start)
	if i < 0 {
		return "", false
	}
	rest := detail[i+len(s.start):]
	if s.stop != nil {
		if loc := s.stop.FindStringIndex(rest); loc != nil {
			rest = rest[:loc[0]]
		}
	}
	return rest, true
}

func extractParties(body string) []string {
	var parties []string
	for _, m := range partyRe.FindAllStringSubmatch(body, -1) {
		if name := strings.TrimSpace(m[1]); name != "" {
			parties = append(parties, name)
		}
	}
	return parties
}

var defaultParser = New()

// Parse splits detail using the four standard categories.
func Parse(detail string) (Sections, bool) {
	return defaultParser.Parse(detail)
}

// Plain strips markup from detail and collapses whitespace, for details that
// carry no recognisable sections.
func Plain(detail string) string {
	s := tagRe.ReplaceAllString(detail, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
