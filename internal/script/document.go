// Package script builds the two fixed-format Indonesian market
// scripts out of extracted figures and model analysis. Composition is
// pure: the same inputs always render the same text, and a missing
// placeholder is an error rather than a blank.
package script

import (
	"strings"

	"github.com/yanuaroby/rupiahemas/internal/domain"
)

// SectionCount is the fixed number of sections in every script.
const SectionCount = 7

// Sentence budget for the analysis slots.
const (
	minAnalysisSentences = 2
	maxAnalysisSentences = 4
)

// Section is one block of a script. Inline sections render the header
// and body on a single line, block sections put a blank line between
// them. A section without a header renders its body alone.
type Section struct {
	Header string
	Body   string
	Inline bool
}

func (s Section) render() string {
	switch {
	case s.Header == "":
		return s.Body
	case s.Inline:
		return s.Header + " " + s.Body
	default:
		return s.Header + "\n\n" + s.Body
	}
}

// Document is a finished script: an ordered list of sections for one
// topic.
type Document struct {
	Topic    domain.Topic
	Sections []Section
}

// Render joins the sections into the final script text.
func (d *Document) Render() string {
	parts := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		parts = append(parts, s.render())
	}
	return strings.Join(parts, "\n\n")
}
