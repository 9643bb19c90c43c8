// Package reflection swaps first- and second-person word forms in text
// captured from the user before it is echoed back.
package reflection

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/go-eliza/internal/textnorm"
)

// Table maps a folded, lowercase word to its replacement. A Table is not
// modified after construction and may be shared between sessions.
type Table struct {
	words map[string]string
}

// NewTable builds a Table, folding each key so lookups match normalized text.
func NewTable(raw map[string]string) Table {
	words := make(map[string]string, len(raw))
	for k, v := range raw {
		words[textnorm.Fold(strings.ToLower(k))] = v
	}
	return Table{words: words}
}

// Len returns the number of entries.
func (t Table) Len() int { return len(t.words) }

// Lookup returns the replacement for word, if any.
func (t Table) Lookup(word string) (string, bool) {
	v, ok := t.words[strings.ToLower(word)]
	return v, ok
}

// Reflect replaces every known word in text with its mapped value, keeping
// unknown words as they are. Words are rejoined with single spaces.
func (t Table) Reflect(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		if r, ok := t.Lookup(w); ok {
			words[i] = r
		}
	}
	return strings.Join(words, " ")
}

type document struct {
	Reflections map[string]string `yaml:"reflections"`
}

// Parse reads a reflections resource of the form
//
//	reflections:
//	  i: you
//	  am: are
func Parse(data []byte) (Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Table{}, fmt.Errorf("parse reflections: %w", err)
	}
	if doc.Reflections == nil {
		return Table{}, fmt.Errorf("parse reflections: missing 'reflections' mapping")
	}
	return NewTable(doc.Reflections), nil
}
