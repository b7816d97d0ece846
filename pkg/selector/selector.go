// Package selector lets the operator pick one initiative through an external
// fuzzy finder and shows it in full.
package selector

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulstuart/gollm/parlamento/pkg/model"
	"github.com/paulstuart/gollm/parlamento/pkg/render"
)

var choiceRe = regexp.MustCompile(`^(\d+)\.`)

// Picker presents candidate lines to the operator and returns the chosen one.
// An aborted or empty choice is reported as "" with a nil error.
type Picker interface {
	Pick(ctx context.Context, candidates []string) (string, error)
}

// Candidates returns the "{index}. {title}" lines offered to the picker, with
// one-based indexes in input order.
func Candidates(initiatives []model.Initiative) []string {
	out := make([]string, 0, len(initiatives))
	for i, ini := range initiatives {
		out = append(out, fmt.Sprintf("%d. %s", i+1, ini.DisplayTitle()))
	}
	return out
}

// ParseChoice reads the leading one-based index of a candidate line.
func ParseChoice(line string) (int, bool) {
	m := choiceRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Resolve maps a picked line back to its initiative.
func Resolve(initiatives []model.Initiative, line string) (model.Initiative, bool) {
	n, ok := ParseChoice(line)
	if !ok || n < 1 || n > len(initiatives) {
		return model.Initiative{}, false
	}
	return initiatives[n-1], true
}

// Controller runs the pick-then-show flow.
type Controller struct {
	Picker   Picker
	Renderer render.Renderer
}

// Show asks the picker for one initiative and renders it verbosely to w.
// selected is false when nothing was picked or the choice did not resolve;
// err is only set when the picker failed or w could not be written.
func (c Controller) Show(ctx context.Context, w io.Writer, initiatives []model.Initiative) (selected bool, err error) {
	if len(initiatives) == 0 {
		return false, nil
	}
	line, err := c.Picker.Pick(ctx, Candidates(initiatives))
	if err != nil {
		return false, fmt.Errorf("pick initiative: %w", err)
	}
	return c.ShowChoice(w, initiatives, line)
}

// ShowChoice renders the initiative named by an already picked line.
func (c Controller) ShowChoice(w io.Writer, initiatives []model.Initiative, line string) (bool, error) {
	ini, ok := Resolve(initiatives, line)
	if !ok {
		return false, nil
	}
	r := c.Renderer
	r.Verbose = true
	return true, r.Single(w, ini)
}
