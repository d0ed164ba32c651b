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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/NVIDIA/policygen/pkg/errors"
	"github.com/NVIDIA/policygen/pkg/policy"
	"github.com/NVIDIA/policygen/pkg/result"
)

// LabelBlock is the set of label lines that enable one component.
type LabelBlock struct {
	Component string
	Labels    []policy.Label
}

// BlockFor builds the label block for a descriptor.
func BlockFor(desc *policy.Descriptor) LabelBlock {
	return LabelBlock{
		Component: desc.Component(),
		Labels:    desc.Labels(),
	}
}

// Lines renders the block at label indentation, each line prefixed with '#'
// when commented is set.
func (b LabelBlock) Lines(commented bool) []string {
	if commented {
		return b.linesWithPrefix("#")
	}
	return b.linesWithPrefix("")
}

// linesWithPrefix renders the block below a section whose lines start with
// the comment marker prefix.
func (b LabelBlock) linesWithPrefix(marker string) []string {
	prefix := marker + strings.Repeat(" ", labelIndent)

	lines := make([]string, 0, len(b.Labels)+1)
	lines = append(lines, prefix+"### "+b.Component)
	for _, l := range b.Labels {
		lines = append(lines, prefix+l.String())
	}
	return lines
}

// InsertLabels splices block directly after the labels: line of
// section.subsection. The document is only changed when the outcome is
// result.OutcomeInserted.
//
// When several sections share a name and form, the first one is used; see
// InsertLabelsAt.
func (d *Document) InsertLabels(section, subsection string, commented bool, block LabelBlock) (result.Outcome, error) {
	if block.Component == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, "label block has no component")
	}

	s := d.Section(section, commented)
	if s == nil {
		return result.OutcomeNotFound, nil
	}
	return d.insertInto(s, subsection, block), nil
}

// InsertLabelsAt is InsertLabels for the section at index in Sections().
// Indexes stay valid across insertions since a label block never adds a
// section.
func (d *Document) InsertLabelsAt(index int, subsection string, block LabelBlock) (result.Outcome, error) {
	if block.Component == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, "label block has no component")
	}
	if index < 0 || index >= len(d.sections) {
		return result.OutcomeNotFound, nil
	}
	return d.insertInto(d.sections[index], subsection, block), nil
}

func (d *Document) insertInto(s *Section, subsection string, block LabelBlock) result.Outcome {
	sub := s.Subsection(subsection)
	if sub == nil {
		return result.OutcomeNotFound
	}

	if d.hasComponent(s, sub, block.Component) {
		return result.OutcomeAlreadyPresent
	}

	if !sub.HasLabels() {
		return result.OutcomeNoLabels
	}

	add := block.linesWithPrefix(s.Prefix)
	if d.crlf {
		for i := range add {
			add[i] += "\r"
		}
	}

	at := sub.LabelsLine + 1
	lines := make([]string, 0, len(d.lines)+len(add))
	lines = append(lines, d.lines[:at]...)
	lines = append(lines, add...)
	lines = append(lines, d.lines[at:]...)

	d.lines = lines
	d.modified = true
	d.locate()

	return result.OutcomeInserted
}

// Validate checks that the current content is still valid YAML.
func (d *Document) Validate() error {
	var node yaml.Node
	if err := yaml.Unmarshal(d.Bytes(), &node); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeValidationFailed,
			"updated values document is not valid YAML", err)
	}
	return nil
}

// Save atomically replaces path with the document content. The content is
// written to a temporary file in the same directory which is then renamed
// over path; the original file mode is kept.
func (d *Document) Save(path string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create temporary file", err)
	}
	tmpName := tmp.Name()

	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("failed to save %s", path), err)
	}

	if _, err := tmp.Write(d.Bytes()); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		return cleanup(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("failed to replace %s", path), err)
	}

	return nil
}
