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

package chart

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/NVIDIA/policygen/pkg/checksum"
	"github.com/NVIDIA/policygen/pkg/defaults"
	apperrors "github.com/NVIDIA/policygen/pkg/errors"
	"github.com/NVIDIA/policygen/pkg/policy"
	"github.com/NVIDIA/policygen/pkg/result"
	"github.com/NVIDIA/policygen/pkg/scaffold"
)

// TemplatesDir is the chart subdirectory holding Helm templates.
const TemplatesDir = "templates"

// PolicyFileName returns the name of the policy manifest for a component.
func PolicyFileName(component string) string {
	return fmt.Sprintf("policy-%s-operator-install.yaml", component)
}

// Dir returns the chart directory for a component under outputRoot.
func Dir(outputRoot, component string) string {
	return filepath.Join(outputRoot, component)
}

// Generator creates policy chart directories from templates.
type Generator struct {
	source           *scaffold.Source
	includeChecksums bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource sets the template source. Defaults to the embedded templates.
func WithSource(src *scaffold.Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.source = src
		}
	}
}

// WithChecksums enables writing checksums.txt into the chart.
func WithChecksums(enabled bool) Option {
	return func(g *Generator) {
		g.includeChecksums = enabled
	}
}

// NewGenerator creates a chart generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{source: scaffold.Embedded()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type artifact struct {
	template string
	path     string
}

// Generate creates <outputRoot>/<component> and renders every chart file into it.
// An existing chart directory is never overwritten.
func (g *Generator) Generate(ctx context.Context, desc *policy.Descriptor, outputRoot string) (*result.Result, error) {
	start := time.Now()

	res, err := g.generate(ctx, desc, outputRoot)
	if err != nil {
		chartGenerateErrors.WithLabelValues(string(apperrors.CodeOf(err))).Inc()
		return nil, err
	}

	res.Duration = time.Since(start)
	chartGenerateDuration.Observe(res.Duration.Seconds())
	chartFilesWritten.Add(float64(len(res.Files)))

	slog.Debug("policy chart generated",
		"component", desc.Component(),
		"dir", res.ChartDir,
		"files", len(res.Files),
		"size", res.Size,
		"duration", res.Duration,
	)

	return res, nil
}

func (g *Generator) generate(ctx context.Context, desc *policy.Descriptor, outputRoot string) (*result.Result, error) {
	if desc == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "policy descriptor is required")
	}

	chartDir := Dir(outputRoot, desc.Component())

	if _, err := os.Stat(chartDir); err == nil {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeAlreadyExists,
			fmt.Sprintf("policy directory %s already exists", chartDir),
			map[string]any{"dir": chartDir})
	} else if !os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("failed to stat %s", chartDir), err)
	}

	if err := g.source.Check(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "context cancelled", err)
	}

	if err := os.MkdirAll(filepath.Join(chartDir, TemplatesDir), defaults.DirPerm); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal,
			"failed to create chart directory", err)
	}

	artifacts := []artifact{
		{template: scaffold.TemplateChart, path: filepath.Join(chartDir, "Chart.yaml")},
		{template: scaffold.TemplateValues, path: filepath.Join(chartDir, "values.yaml")},
		{template: scaffold.TemplateReadme, path: filepath.Join(chartDir, "README.md")},
		{template: scaffold.TemplatePolicy, path: filepath.Join(chartDir, TemplatesDir, PolicyFileName(desc.Component()))},
	}

	res := result.New(desc.Component(), chartDir)
	values := desc.Placeholders()

	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "context cancelled", err)
		}
		n, err := scaffold.RenderFile(g.source, a.template, a.path, values)
		if err != nil {
			return nil, err
		}
		res.AddFile(a.path, n)
	}

	if g.includeChecksums {
		path, err := checksum.Generate(ctx, chartDir, res.Files)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal,
				"failed to generate checksums", err)
		}
		info, statErr := os.Stat(path)
		if statErr == nil {
			res.AddFile(path, info.Size())
		}
		res.Checksum = path
	}

	return res, nil
}
