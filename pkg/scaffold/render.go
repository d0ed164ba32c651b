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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/NVIDIA/policygen/pkg/defaults"
	apperrors "github.com/NVIDIA/policygen/pkg/errors"
)

// placeholderPattern matches {{NAME}} tokens. Helm actions such as
// {{ .Values.x }} and hub templates never match it.
var placeholderPattern = regexp.MustCompile(`\{\{[A-Z][A-Z0-9_]*\}\}`)

// Substitute replaces every {{NAME}} token whose NAME is in values.
// Tokens left over afterwards are removed.
func Substitute(content string, values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", values[k])
	}

	out := strings.NewReplacer(pairs...).Replace(content)
	return placeholderPattern.ReplaceAllString(out, "")
}

// Unresolved returns the distinct placeholder names in content that values
// does not cover, in order of first appearance.
func Unresolved(content string, values map[string]string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, tok := range placeholderPattern.FindAllString(content, -1) {
		name := strings.TrimSuffix(strings.TrimPrefix(tok, "{{"), "}}")
		if _, ok := values[name]; ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Render reads the named template from src and substitutes values into it.
func Render(src *Source, name string, values map[string]string) (string, error) {
	content, err := src.Read(name)
	if err != nil {
		return "", err
	}

	if missing := Unresolved(content, values); len(missing) > 0 {
		slog.Debug("removing unresolved placeholders",
			"template", name,
			"placeholders", missing,
		)
	}

	return Substitute(content, values), nil
}

// RenderFile renders the named template and writes it to outPath.
// It returns the number of bytes written.
func RenderFile(src *Source, name, outPath string, values map[string]string) (int64, error) {
	content, err := Render(src, name, values)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), defaults.DirPerm); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("failed to create directory for %s", outPath), err)
	}

	if err := os.WriteFile(outPath, []byte(content), defaults.FilePerm); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("failed to write %s", outPath), err)
	}

	return int64(len(content)), nil
}
