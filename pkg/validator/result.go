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

package validator

import (
	stderrors "errors"

	apperrors "github.com/NVIDIA/policygen/pkg/errors"
)

// CheckStatus represents the outcome of one validation step.
type CheckStatus string

const (
	// CheckStatusPassed indicates the step succeeded.
	CheckStatusPassed CheckStatus = "passed"

	// CheckStatusFailed indicates the step rejected the chart.
	CheckStatusFailed CheckStatus = "failed"

	// CheckStatusSkipped indicates the step could not run.
	CheckStatusSkipped CheckStatus = "skipped"
)

// Check names.
const (
	CheckYAML      = "yaml-syntax"
	CheckChecksums = "checksums"
	CheckRender    = "helm-render"
	CheckManifests = "manifests"
)

// Check is the outcome of one validation step.
type Check struct {
	Name   string      `json:"name" yaml:"name"`
	Status CheckStatus `json:"status" yaml:"status"`
	Detail string      `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Manifest identifies one rendered object.
type Manifest struct {
	APIVersion string `json:"apiVersion" yaml:"apiVersion"`
	Kind       string `json:"kind" yaml:"kind"`
	Name       string `json:"name" yaml:"name"`
	Namespace  string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// Report is the result of validating a chart directory.
type Report struct {
	// ChartDir is the validated directory.
	ChartDir string `json:"chartDir" yaml:"chartDir"`

	// HelmVersion is the version reported by the helm binary, when rendered.
	HelmVersion string `json:"helmVersion,omitempty" yaml:"helmVersion,omitempty"`

	// Checks contains one entry per validation step, in execution order.
	Checks []Check `json:"checks" yaml:"checks"`

	// Manifests lists the objects the chart renders to.
	Manifests []Manifest `json:"manifests,omitempty" yaml:"manifests,omitempty"`
}

// Rendered reports whether the chart was rendered with helm.
func (r *Report) Rendered() bool {
	for _, c := range r.Checks {
		if c.Name == CheckRender {
			return c.Status == CheckStatusPassed
		}
	}
	return false
}

// Warnings returns the details of skipped checks.
func (r *Report) Warnings() []string {
	var out []string
	for _, c := range r.Checks {
		if c.Status == CheckStatusSkipped {
			out = append(out, c.Name+": "+c.Detail)
		}
	}
	return out
}

func (r *Report) add(name string, status CheckStatus, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Status: status, Detail: detail})
}

// fail records a failed check and returns err tagged as a validation failure
// unless it already carries a code.
func (r *Report) fail(name string, err error) error {
	r.add(name, CheckStatusFailed, err.Error())
	var se *apperrors.StructuredError
	if stderrors.As(err, &se) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrCodeValidationFailed, name+" failed", err)
}
