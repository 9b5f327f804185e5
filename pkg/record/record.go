package record

import (
	"bytes"
	"strings"

	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/arthur-debert/alps/pkg/types"
)

// Label is a section header line.
type Label string

const (
	Packages Label = "[PACKAGES]"
	Configs  Label = "[CONFIGS]"
	Scripts  Label = "[SCRIPTS]"
)

// Labels is the canonical section order.
var Labels = []Label{Packages, Configs, Scripts}

// Name returns the lower case section name used in messages ("packages").
func (l Label) Name() string {
	return strings.ToLower(strings.Trim(string(l), "[]"))
}

// LabelFor maps an entry kind to its section.
func LabelFor(kind types.Kind) Label {
	switch kind {
	case types.KindConfig:
		return Configs
	case types.KindScript:
		return Scripts
	default:
		return Packages
	}
}

func isLabel(line string) bool {
	for _, l := range Labels {
		if line == string(l) {
			return true
		}
	}
	return false
}

// Record is the in-memory form of a record file.
type Record struct {
	sections map[Label][]string
}

// New returns an empty record.
func New() *Record {
	return &Record{sections: make(map[Label][]string, len(Labels))}
}

// Decode parses data. Text before the first label is ignored, a repeated
// label continues its section and exact duplicate entries collapse.
func Decode(data []byte) *Record {
	r := New()
	var current Label
	for _, line := range strings.FieldsFunc(string(data), func(c rune) bool { return c == '\n' || c == '\r' }) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isLabel(line) {
			current = Label(line)
			continue
		}
		if current == "" {
			continue
		}
		if !r.hasExact(current, line) {
			r.sections[current] = append(r.sections[current], line)
		}
	}
	return r
}

// Encode renders the canonical layout.
func (r *Record) Encode() []byte {
	var buf bytes.Buffer
	for i, l := range Labels {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(string(l))
		buf.WriteByte('\n')
		for _, entry := range r.sections[l] {
			buf.WriteString(entry)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// Section returns a copy of the entries under l.
func (r *Record) Section(l Label) []string {
	return append([]string(nil), r.sections[l]...)
}

// Set replaces the entries under l.
func (r *Record) Set(l Label, entries []string) {
	r.sections[l] = append([]string(nil), entries...)
}

// Len returns the number of entries under l.
func (r *Record) Len(l Label) int {
	return len(r.sections[l])
}

// Empty reports whether every section is empty.
func (r *Record) Empty() bool {
	for _, l := range Labels {
		if len(r.sections[l]) > 0 {
			return false
		}
	}
	return true
}

func (r *Record) hasExact(l Label, entry string) bool {
	for _, e := range r.sections[l] {
		if e == entry {
			return true
		}
	}
	return false
}

// Contains reports whether an entry identity-equal to entry is recorded.
func (r *Record) Contains(l Label, entry string) bool {
	id := Identity(l, entry)
	for _, e := range r.sections[l] {
		if Identity(l, e) == id {
			return true
		}
	}
	return false
}

// Add inserts entry at the head of l unless an identity-equal entry is
// already present. It reports whether the record changed.
func (r *Record) Add(l Label, entry string) bool {
	if r.Contains(l, entry) {
		return false
	}
	r.sections[l] = append([]string{entry}, r.sections[l]...)
	return true
}

// Remove drops every entry under l equal to entry and returns how many
// were removed. Removal matches the full stored entry, suffix included.
func (r *Record) Remove(l Label, entry string) int {
	kept := r.sections[l][:0:0]
	removed := 0
	for _, e := range r.sections[l] {
		if e == entry {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.sections[l] = kept
	return removed
}

// Identity returns the comparison key used for "already recorded" checks.
// Config entries compare by templated path with any suffix stripped; other
// sections compare byte for byte.
func Identity(l Label, entry string) string {
	if l == Configs {
		return ParseConfigEntry(entry).Path
	}
	return entry
}

// ValidEntry rejects values that would corrupt the line format.
func ValidEntry(entry string) error {
	trimmed := strings.TrimSpace(entry)
	switch {
	case trimmed == "":
		return errors.New(errors.ErrInvalidInput, "entry must not be empty")
	case trimmed != entry:
		return errors.Newf(errors.ErrInvalidInput, "entry %q has surrounding whitespace", entry)
	case strings.ContainsAny(entry, "\r\n"):
		return errors.Newf(errors.ErrInvalidInput, "entry %q contains a line break", entry)
	case isLabel(entry):
		return errors.Newf(errors.ErrInvalidInput, "entry %q collides with a section label", entry)
	}
	return nil
}
