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

package result

import (
	"fmt"
	"time"

	"github.com/NVIDIA/policygen/pkg/header"
)

// Outcome of inserting a label block into one values subsection.
type Outcome string

const (
	// OutcomeInserted means the block was spliced in.
	OutcomeInserted Outcome = "inserted"
	// OutcomeAlreadyPresent means the component key was already there.
	OutcomeAlreadyPresent Outcome = "already-present"
	// OutcomeNoLabels means the subsection has no labels: marker.
	OutcomeNoLabels Outcome = "no-labels"
	// OutcomeNotFound means the section or subsection does not exist.
	OutcomeNotFound Outcome = "not-found"
)

// Change records what happened to one subsection of a values file.
type Change struct {
	Section    string  `json:"section" yaml:"section"`
	Subsection string  `json:"subsection" yaml:"subsection"`
	Commented  bool    `json:"commented" yaml:"commented"`
	Outcome    Outcome `json:"outcome" yaml:"outcome"`
}

// FileReport is the outcome of updating one values file.
type FileReport struct {
	Path     string   `json:"path" yaml:"path"`
	Changes  []Change `json:"changes,omitempty" yaml:"changes,omitempty"`
	Written  bool     `json:"written" yaml:"written"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Inserted returns the number of subsections that received the block.
func (r *FileReport) Inserted() int {
	n := 0
	for _, c := range r.Changes {
		if c.Outcome == OutcomeInserted {
			n++
		}
	}
	return n
}

// Result is the summary of one generate invocation.
type Result struct {
	header.Header `json:",inline" yaml:",inline"`

	// Component is the component the chart was generated for.
	Component string `json:"component" yaml:"component"`

	// ChartDir is the generated chart directory.
	ChartDir string `json:"chart_dir" yaml:"chart_dir"`

	// Files contains the paths of generated files.
	Files []string `json:"files" yaml:"files"`

	// Size is the total size in bytes of generated files.
	Size int64 `json:"size_bytes" yaml:"size_bytes"`

	// Checksum is the checksums.txt path, when written.
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty"`

	// ValuesFiles contains one report per processed values file.
	ValuesFiles []FileReport `json:"values_files,omitempty" yaml:"values_files,omitempty"`

	// Rendered is true when the chart was rendered with helm.
	Rendered bool `json:"rendered" yaml:"rendered"`

	// Reference is the OCI reference the chart was pushed to.
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"`

	// Digest is the manifest digest of the pushed chart.
	Digest string `json:"digest,omitempty" yaml:"digest,omitempty"`

	// Warnings contains non-fatal problems.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Duration is the total time taken.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// New creates an empty Result for a component.
func New(component, chartDir string) *Result {
	return &Result{
		Component: component,
		ChartDir:  chartDir,
		Files:     make([]string, 0),
		Warnings:  make([]string, 0),
	}
}

// AddFile records a generated file.
func (r *Result) AddFile(path string, size int64) {
	r.Files = append(r.Files, path)
	r.Size += size
}

// AddWarning records a non-fatal problem.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// AddValuesReport records a values file report and lifts its warnings.
func (r *Result) AddValuesReport(rep FileReport) {
	r.ValuesFiles = append(r.ValuesFiles, rep)
	r.Warnings = append(r.Warnings, rep.Warnings...)
}

// Summary returns a one-line human-readable summary.
func (r *Result) Summary() string {
	s := fmt.Sprintf("Generated %d files (%s) for %s in %v.",
		len(r.Files), formatBytes(r.Size), r.Component, r.Duration.Round(time.Millisecond))

	if len(r.ValuesFiles) > 0 {
		inserted, written := 0, 0
		for i := range r.ValuesFiles {
			inserted += r.ValuesFiles[i].Inserted()
			if r.ValuesFiles[i].Written {
				written++
			}
		}
		s += fmt.Sprintf(" Labels added to %d subsections in %d/%d values files.",
			inserted, written, len(r.ValuesFiles))
	}

	if len(r.Warnings) > 0 {
		s += fmt.Sprintf(" %d warnings.", len(r.Warnings))
	}
	return s
}

// formatBytes formats bytes into human-readable format.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
