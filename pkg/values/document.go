// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package values

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/NVIDIA/policygen/pkg/errors"
)

// Section names recognised at the top level of a values document.
const (
	SectionHubClusterSets     = "hubClusterSets"
	SectionManagedClusterSets = "managedClusterSets"
	SectionClusters           = "clusters"
)

// KnownSections lists the section names in the order they usually appear.
var KnownSections = []string{
	SectionHubClusterSets,
	SectionManagedClusterSets,
	SectionClusters,
}

// Indentation of the structural levels below a section header.
const (
	subsectionIndent = 2
	labelsIndent     = 4
	labelIndent      = 6
)

var headerPattern = regexp.MustCompile(`^(` + strings.Join(KnownSections, "|") + `):\s*(#.*)?$`)

// Label is one entry under a subsection's labels: marker.
type Label struct {
	Key   string
	Value string
	Line  int
}

// Subsection is a named child of a section, e.g. a cluster set.
// Line numbers are zero-based indexes into the document; LabelsLine is -1
// when the subsection has no labels: marker.
type Subsection struct {
	Name       string
	Line       int
	LabelsLine int
	Labels     []Label
	End        int
}

// HasLabels reports whether the subsection has a labels: marker.
func (s *Subsection) HasLabels() bool {
	return s.LabelsLine >= 0
}

// Section is a top-level block of the document. A commented section has every
// line prefixed with the marker its header used ("#" or "# "); all structure
// is read from the text after that marker.
type Section struct {
	Name        string
	Commented   bool
	Prefix      string
	Line        int
	End         int
	Subsections []*Subsection
}

// Subsection returns the first child with the given name, or nil.
func (s *Section) Subsection(name string) *Subsection {
	for _, sub := range s.Subsections {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// Document is a values file held as lines plus the section tree located in them.
// Lines outside an inserted block are kept byte for byte.
type Document struct {
	lines           []string
	trailingNewline bool
	crlf            bool
	sections        []*Section
	warnings        []string
	modified        bool
}

// Parse reads a values document. The data must be valid YAML.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeValidationFailed,
			"values document is not valid YAML", err)
	}

	d := &Document{}
	text := string(data)
	if text != "" {
		d.trailingNewline = strings.HasSuffix(text, "\n")
		d.lines = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
		d.crlf = strings.HasSuffix(d.lines[0], "\r")
	}

	d.locate()
	d.crossCheck(&root)
	return d, nil
}

// Bytes renders the document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(d.lines, "\n"))
	if d.trailingNewline {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Lines returns a copy of the document lines without line terminators.
func (d *Document) Lines() []string {
	return append([]string(nil), d.lines...)
}

// Modified reports whether a block has been inserted since Parse.
func (d *Document) Modified() bool {
	return d.modified
}

// Warnings returns problems found while cross-checking the located sections
// against the YAML structure of the document.
func (d *Document) Warnings() []string {
	return d.warnings
}

// Sections returns the located sections in document order.
func (d *Document) Sections() []*Section {
	return d.sections
}

// Section returns the first section with the given name and form, or nil.
func (d *Document) Section(name string, commented bool) *Section {
	for _, s := range d.sections {
		if s.Name == name && s.Commented == commented {
			return s
		}
	}
	return nil
}

// SubsectionNames returns the ordered child names of the first section with
// the given name and form.
func (d *Document) SubsectionNames(name string, commented bool) []string {
	s := d.Section(name, commented)
	if s == nil {
		return nil
	}
	return subsectionNames(s)
}

func subsectionNames(s *Section) []string {
	names := make([]string, 0, len(s.Subsections))
	for _, sub := range s.Subsections {
		names = append(names, sub.Name)
	}
	return names
}

// HasComponent reports whether the subsection already has a key line naming
// the component, in the same form (active or commented) as its section.
func (d *Document) HasComponent(section, subsection string, commented bool, component string) bool {
	s := d.Section(section, commented)
	if s == nil {
		return false
	}
	return d.hasComponent(s, s.Subsection(subsection), component)
}

func (d *Document) hasComponent(s *Section, sub *Subsection, component string) bool {
	if sub == nil {
		return false
	}
	for i := sub.Line + 1; i <= sub.End; i++ {
		body, ok := bodyOf(d.lines[i], s.Prefix)
		if !ok {
			continue
		}
		if key, ok := keyOf(strings.TrimLeft(body, " ")); ok && key == component {
			return true
		}
	}
	return false
}

// locate rebuilds the section tree from the current lines.
func (d *Document) locate() {
	d.sections = nil

	var (
		sec      *Section
		sub      *Subsection
		inLabels bool
	)

	for i, raw := range d.lines {
		line := strings.TrimSuffix(raw, "\r")

		if name, prefix, ok := header(line); ok {
			sec = &Section{Name: name, Commented: prefix != "", Prefix: prefix, Line: i, End: i}
			d.sections = append(d.sections, sec)
			sub, inLabels = nil, false
			continue
		}

		if sec == nil {
			continue
		}

		if endsSection(line, sec.Commented) {
			sec, sub, inLabels = nil, nil, false
			continue
		}

		body, ok := bodyOf(line, sec.Prefix)
		if !ok {
			continue
		}

		indent := len(body) - len(strings.TrimLeft(body, " "))
		rest := body[indent:]
		if rest == "" || strings.HasPrefix(rest, "#") {
			continue
		}

		sec.End = i
		if sub != nil {
			sub.End = i
		}

		key, isKey := keyOf(rest)
		switch {
		case indent == subsectionIndent && isKey:
			sub = &Subsection{Name: key, Line: i, LabelsLine: -1, End: i}
			sec.Subsections = append(sec.Subsections, sub)
			inLabels = false
		case sub == nil:
		case indent == labelsIndent:
			inLabels = false
			if isKey && key == "labels" && !sub.HasLabels() {
				sub.LabelsLine = i
				inLabels = true
			}
		case indent == labelIndent && inLabels && isKey:
			sub.Labels = append(sub.Labels, Label{Key: key, Value: valueOf(rest), Line: i})
		case indent < subsectionIndent:
			sub, inLabels = nil, false
		}
	}
}

// crossCheck compares active sections with the parsed YAML tree.
func (d *Document) crossCheck(root *yaml.Node) {
	d.warnings = nil

	var top *yaml.Node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 && root.Content[0].Kind == yaml.MappingNode {
		top = root.Content[0]
	}

	for _, s := range d.sections {
		if s.Commented {
			continue
		}
		node := mappingValue(top, s.Name)
		if node == nil {
			d.warnings = append(d.warnings,
				fmt.Sprintf("section %s at line %d is not a top-level key", s.Name, s.Line+1))
			continue
		}
		for _, sub := range s.Subsections {
			if mappingValue(node, sub.Name) == nil {
				d.warnings = append(d.warnings,
					fmt.Sprintf("%s.%s at line %d is not a key of %s", s.Name, sub.Name, sub.Line+1, s.Name))
			}
		}
	}
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// header matches "name:" for an active section and "#name:" or "# name:"
// for a commented one. prefix is the comment marker the header used and is
// empty for an active section.
func header(line string) (name, prefix string, ok bool) {
	if m := headerPattern.FindStringSubmatch(line); m != nil {
		return m[1], "", true
	}
	for _, p := range []string{"# ", "#"} {
		body, found := strings.CutPrefix(line, p)
		if !found {
			continue
		}
		if m := headerPattern.FindStringSubmatch(body); m != nil {
			return m[1], p, true
		}
	}
	return "", "", false
}

// endsSection reports whether line closes the current section: a column-0
// key in either form.
func endsSection(line string, commented bool) bool {
	if startsWithLetter(line) {
		return true
	}
	if !commented {
		return false
	}
	body, ok := strings.CutPrefix(line, "#")
	if !ok {
		// a non-blank active line ends a commented block
		return strings.TrimSpace(line) != ""
	}
	return startsWithLetter(strings.TrimPrefix(body, " "))
}

// bodyOf strips prefix, the comment marker of a commented section, from
// line. An empty prefix selects active lines; lines of another form are
// rejected.
func bodyOf(line, prefix string) (string, bool) {
	line = strings.TrimSuffix(line, "\r")
	if prefix != "" {
		return strings.CutPrefix(line, prefix)
	}
	if strings.HasPrefix(line, "#") {
		return "", false
	}
	return line, true
}

// keyOf returns the mapping key of "key:" or "key: value".
func keyOf(s string) (string, bool) {
	idx := strings.Index(s, ":")
	if idx <= 0 {
		return "", false
	}
	if idx+1 < len(s) && s[idx+1] != ' ' && s[idx+1] != '\t' {
		return "", false
	}
	key := strings.TrimSpace(s[:idx])
	if strings.HasPrefix(key, "- ") || strings.HasPrefix(key, "#") {
		return "", false
	}
	return strings.Trim(key, `"'`), key != ""
}

func valueOf(s string) string {
	_, v, _ := strings.Cut(s, ":")
	v = strings.TrimSpace(v)
	if i := strings.Index(v, " #"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	return strings.Trim(v, `"'`)
}

func startsWithLetter(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
