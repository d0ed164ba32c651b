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

package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	apperrors "github.com/NVIDIA/policygen/pkg/errors"
)

// Template file names every Source must provide.
const (
	TemplateChart  = "Chart.yaml.tmpl"
	TemplateValues = "values.yaml.tmpl"
	TemplateReadme = "README.md.tmpl"
	TemplatePolicy = "policy.yaml.tmpl"
)

// RequiredTemplates lists the templates a chart is rendered from.
var RequiredTemplates = []string{
	TemplateChart,
	TemplateValues,
	TemplateReadme,
	TemplatePolicy,
}

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Source is a read-only set of template files.
type Source struct {
	name string
	fsys fs.FS
}

// Embedded returns the template set compiled into the binary.
func Embedded() *Source {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// the embed pattern above guarantees the directory exists
		panic(fmt.Sprintf("embedded templates: %v", err))
	}
	return &Source{name: "embedded", fsys: sub}
}

// FromDir returns a Source reading templates from dir.
// The directory must exist and contain every required template.
func FromDir(dir string) (*Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeNotFound,
			"template directory not found", err, map[string]any{"dir": dir})
	}
	if !info.IsDir() {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeNotFound,
			"template path is not a directory", map[string]any{"dir": dir})
	}

	src := &Source{name: dir, fsys: os.DirFS(dir)}
	if err := src.Check(); err != nil {
		return nil, err
	}
	return src, nil
}

// NewSource wraps an arbitrary filesystem, e.g. fstest.MapFS in tests.
func NewSource(name string, fsys fs.FS) *Source {
	return &Source{name: name, fsys: fsys}
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	return s.name
}

// Check verifies that every required template is present.
func (s *Source) Check() error {
	var missing []string
	for _, name := range RequiredTemplates {
		if _, err := fs.Stat(s.fsys, name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewWithContext(apperrors.ErrCodeNotFound,
			fmt.Sprintf("template source %s is missing %v", s.name, missing),
			map[string]any{"source": s.name, "missing": missing})
	}
	return nil
}

// Read returns the raw content of the named template.
func (s *Source) Read(name string) (string, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return "", apperrors.WrapWithContext(apperrors.ErrCodeNotFound,
			"template not found", err, map[string]any{"source": s.name, "template": name})
	}
	return string(data), nil
}
