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
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/NVIDIA/policygen/pkg/policy"
	"github.com/NVIDIA/policygen/pkg/result"
)

// Updater adds a component's label block to values files.
type Updater struct {
	sections []string
}

// UpdaterOption configures an Updater.
type UpdaterOption func(*Updater)

// WithSections limits processing to the named sections. Empty means all.
func WithSections(names []string) UpdaterOption {
	return func(u *Updater) {
		u.sections = append([]string(nil), names...)
	}
}

// NewUpdater creates an Updater.
func NewUpdater(opts ...UpdaterOption) *Updater {
	u := &Updater{}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Apply processes each file in order. Problems with a file are recorded as
// warnings in its report and never stop the remaining files.
func (u *Updater) Apply(ctx context.Context, files []string, desc *policy.Descriptor) []result.FileReport {
	block := BlockFor(desc)
	reports := make([]result.FileReport, 0, len(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			reports = append(reports, result.FileReport{
				Path:     path,
				Warnings: []string{fmt.Sprintf("%s: skipped: %v", path, err)},
			})
			continue
		}
		reports = append(reports, u.ApplyFile(path, block))
	}
	return reports
}

// ApplyFile inserts block into every matching section and subsection of one
// file and saves it when anything changed.
func (u *Updater) ApplyFile(path string, block LabelBlock) result.FileReport {
	rep := result.FileReport{Path: path}

	warn := func(msg string, args ...any) {
		detail := fmt.Sprintf(msg, args...)
		slog.Warn("values file not fully updated", "file", path, "detail", detail)
		rep.Warnings = append(rep.Warnings, path+": "+detail)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		valuesFilesSkipped.Inc()
		warn("skipped: %v", err)
		return rep
	}

	doc, err := Parse(data)
	if err != nil {
		valuesFilesSkipped.Inc()
		warn("skipped: %v", err)
		return rep
	}
	for _, w := range doc.Warnings() {
		warn("%s", w)
	}

	targets := u.targets(doc)
	if len(targets) == 0 {
		warn("no matching sections")
	}

	for _, idx := range targets {
		sec := doc.Sections()[idx]
		name := sec.Name
		if sec.Commented {
			name = sec.Prefix + name
		}

		subs := subsectionNames(sec)
		if len(subs) == 0 {
			warn("%s at line %d has no subsections", name, sec.Line+1)
			continue
		}

		for _, sub := range subs {
			outcome, err := doc.InsertLabelsAt(idx, sub, block)
			if err != nil {
				warn("%s.%s: %v", name, sub, err)
				continue
			}
			labelInsertions.WithLabelValues(string(outcome)).Inc()

			rep.Changes = append(rep.Changes, result.Change{
				Section:    sec.Name,
				Subsection: sub,
				Commented:  sec.Commented,
				Outcome:    outcome,
			})

			switch outcome {
			case result.OutcomeInserted:
				slog.Debug("label block inserted",
					"file", path,
					"section", name,
					"subsection", sub,
				)
			case result.OutcomeAlreadyPresent:
				warn("%s already present in %s.%s", block.Component, name, sub)
			case result.OutcomeNoLabels:
				warn("%s.%s has no labels: marker", name, sub)
			case result.OutcomeNotFound:
				warn("%s.%s not found", name, sub)
			}
		}
	}

	if !doc.Modified() {
		return rep
	}

	if err := doc.Save(path); err != nil {
		warn("not saved: %v", err)
		return rep
	}

	valuesFilesWritten.Inc()
	rep.Written = true
	return rep
}

// targets returns the indexes into doc.Sections() of the sections to
// process, in document order. Repeated sections are each listed.
func (u *Updater) targets(doc *Document) []int {
	var out []int
	for i, s := range doc.Sections() {
		if len(u.sections) > 0 && !slices.Contains(u.sections, s.Name) {
			continue
		}
		out = append(out, i)
	}
	return out
}
