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
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"

	"github.com/NVIDIA/policygen/pkg/checksum"
	"github.com/NVIDIA/policygen/pkg/defaults"
	apperrors "github.com/NVIDIA/policygen/pkg/errors"
)

// PolicyGVK is the kind every rendered chart must contain at least once.
var PolicyGVK = schema.GroupVersionKind{
	Group:   "policy.open-cluster-management.io",
	Version: "v1",
	Kind:    "Policy",
}

// parseConcurrency bounds the number of files parsed at once.
const parseConcurrency = 4

// Validator checks a generated chart directory.
type Validator struct {
	helmBinary    string
	requireHelm   bool
	skipRender    bool
	renderTimeout time.Duration
}

// Option configures a Validator.
type Option func(*Validator)

// WithHelmBinary sets the helm executable name or path.
func WithHelmBinary(name string) Option {
	return func(v *Validator) {
		if name != "" {
			v.helmBinary = name
		}
	}
}

// WithRequireHelm makes a missing helm binary a failure instead of a warning.
func WithRequireHelm(required bool) Option {
	return func(v *Validator) {
		v.requireHelm = required
	}
}

// WithSkipRender disables the helm render and manifest checks.
func WithSkipRender(skip bool) Option {
	return func(v *Validator) {
		v.skipRender = skip
	}
}

// WithRenderTimeout bounds the helm template call.
func WithRenderTimeout(d time.Duration) Option {
	return func(v *Validator) {
		if d > 0 {
			v.renderTimeout = d
		}
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		helmBinary:    "helm",
		renderTimeout: defaults.HelmRenderTimeout,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate parses the plain YAML files of chartDir, verifies checksums.txt
// when present, renders the chart with helm and decodes the rendered
// manifests. The first failing step ends validation; the returned report
// lists every step that ran.
func (v *Validator) Validate(ctx context.Context, chartDir string) (*Report, error) {
	report := &Report{ChartDir: chartDir}

	if err := parseYAMLFiles(ctx, chartDir); err != nil {
		return report, report.fail(CheckYAML, err)
	}
	report.add(CheckYAML, CheckStatusPassed, "")

	if _, err := os.Stat(checksum.Path(chartDir)); err == nil {
		if err := checksum.Verify(ctx, chartDir); err != nil {
			return report, report.fail(CheckChecksums, err)
		}
		report.add(CheckChecksums, CheckStatusPassed, "")
	}

	if v.skipRender {
		report.add(CheckRender, CheckStatusSkipped, "render disabled")
		return report, nil
	}

	helmPath, err := exec.LookPath(v.helmBinary)
	if err != nil {
		if v.requireHelm {
			return report, report.fail(CheckRender, apperrors.Wrap(apperrors.ErrCodeUnavailable,
				fmt.Sprintf("%s not found in PATH", v.helmBinary), err))
		}
		slog.Warn("helm not found, skipping chart render", "binary", v.helmBinary)
		report.add(CheckRender, CheckStatusSkipped, fmt.Sprintf("%s not found in PATH", v.helmBinary))
		return report, nil
	}

	report.HelmVersion = helmVersion(ctx, helmPath)

	rendered, err := v.render(ctx, helmPath, chartDir)
	if err != nil {
		return report, report.fail(CheckRender, err)
	}
	report.add(CheckRender, CheckStatusPassed, report.HelmVersion)

	manifests, err := decodeManifests(rendered)
	if err != nil {
		return report, report.fail(CheckManifests, err)
	}
	report.Manifests = manifests
	report.add(CheckManifests, CheckStatusPassed, fmt.Sprintf("%d objects", len(manifests)))

	slog.Debug("chart validated",
		"dir", chartDir,
		"manifests", len(manifests),
		"helm", report.HelmVersion,
	)

	return report, nil
}

// render runs helm template on the chart and returns the rendered stream.
func (v *Validator) render(ctx context.Context, helmPath, chartDir string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, v.renderTimeout)
	defer cancel()

	release := filepath.Base(filepath.Clean(chartDir))
	cmd := exec.CommandContext(ctx, helmPath, "template", release, chartDir)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout,
				fmt.Sprintf("helm template timed out after %v", v.renderTimeout), err)
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeValidationFailed,
			"helm template failed: "+strings.TrimSpace(stderr.String()), err,
			map[string]any{"dir": chartDir})
	}

	return stdout.Bytes(), nil
}

// helmVersion returns helm's short version string, or "" if it cannot be read.
func helmVersion(ctx context.Context, helmPath string) string {
	ctx, cancel := context.WithTimeout(ctx, defaults.HelmVersionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, helmPath, "version", "--short").Output()
	if err != nil {
		slog.Debug("failed to read helm version", "error", err)
		return ""
	}
	return strings.TrimSpace(string(out))
}

// decodeManifests decodes a multi-document stream into objects. Every object
// needs apiVersion and kind, and at least one must be a Policy.
func decodeManifests(data []byte) ([]Manifest, error) {
	decoder := utilyaml.NewYAMLOrJSONDecoder(bytes.NewReader(data), 4096)

	var (
		manifests []Manifest
		policies  int
	)
	for i := 0; ; i++ {
		var obj map[string]any
		if err := decoder.Decode(&obj); err != nil {
			if stderrors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if len(obj) == 0 {
			continue
		}

		u := &unstructured.Unstructured{Object: obj}
		if u.GetAPIVersion() == "" || u.GetKind() == "" {
			return nil, fmt.Errorf("document %d: apiVersion and kind are required", i)
		}
		if u.GroupVersionKind() == PolicyGVK {
			policies++
		}

		manifests = append(manifests, Manifest{
			APIVersion: u.GetAPIVersion(),
			Kind:       u.GetKind(),
			Name:       u.GetName(),
			Namespace:  u.GetNamespace(),
		})
	}

	if policies == 0 {
		return nil, fmt.Errorf("no %s found in rendered chart", PolicyGVK.String())
	}
	return manifests, nil
}

// parseYAMLFiles parses every .yaml/.yml file outside templates/ concurrently.
func parseYAMLFiles(ctx context.Context, chartDir string) error {
	files, err := plainYAMLFiles(chartDir)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parseConcurrency)

	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return parseYAMLFile(file)
		})
	}

	return g.Wait()
}

func plainYAMLFiles(chartDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(chartDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "templates" && path != chartDir {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNotFound,
			fmt.Sprintf("failed to read chart directory %s", chartDir), err)
	}
	sort.Strings(files)
	return files, nil
}

func parseYAMLFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if stderrors.Is(err, io.EOF) {
				return nil
			}
			return apperrors.WrapWithContext(apperrors.ErrCodeValidationFailed,
				fmt.Sprintf("invalid YAML syntax in %s", filepath.Base(path)), err,
				map[string]any{"file": path})
		}
	}
}
