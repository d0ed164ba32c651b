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

package serializer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/policygen/pkg/errors"
)

type sample struct {
	Name     string            `json:"name" yaml:"name"`
	Files    []string          `json:"files" yaml:"files"`
	Labels   map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Duration time.Duration     `json:"duration" yaml:"duration"`
	Skip     string            `json:"-" yaml:"-"`
	hidden   string
}

func newSample() sample {
	return sample{
		Name:     "foo",
		Files:    []string{"Chart.yaml", "values.yaml"},
		Labels:   map[string]string{"a": "b"},
		Duration: 1500 * time.Millisecond,
		Skip:     "x",
		hidden:   "y",
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"json", "YAML", " table "} {
		_, err := ParseFormat(in)
		require.NoError(t, err, in)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidRequest))
	assert.Contains(t, err.Error(), "json, yaml, table")
}

func TestNewWriter_UnknownFormat(t *testing.T) {
	_, err := NewWriter(Format("xml"), &bytes.Buffer{})
	require.Error(t, err)
}

func TestWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(FormatJSON, &buf)
	require.NoError(t, err)
	require.NoError(t, w.Serialize(context.Background(), newSample()))

	out := buf.String()
	assert.Contains(t, out, `"name": "foo"`)
	assert.Contains(t, out, `"duration": 1500000000`)
	assert.NotContains(t, out, "Skip")
}

func TestWriter_YAML(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(FormatYAML, &buf)
	require.NoError(t, err)
	require.NoError(t, w.Serialize(context.Background(), newSample()))

	out := buf.String()
	assert.Contains(t, out, "name: foo\n")
	assert.Contains(t, out, "files:\n  - Chart.yaml\n  - values.yaml\n")
}

func TestWriter_Table(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(FormatTable, &buf)
	require.NoError(t, err)
	require.NoError(t, w.Serialize(context.Background(), newSample()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "FIELD"))

	out := buf.String()
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "files.[0]")
	assert.Contains(t, out, "labels.a")
	assert.Contains(t, out, "1.5s")
	assert.NotContains(t, out, "Skip")
	assert.NotContains(t, out, "hidden")
}

type embedded struct {
	Kind string `json:"kind" yaml:"kind"`
}

func TestWriter_TableFlattensEmbeddedStructs(t *testing.T) {
	v := struct {
		embedded `json:",inline" yaml:",inline"`
		Name     string `json:"name" yaml:"name"`
	}{embedded: embedded{Kind: "PolicyChartResult"}, Name: "foo"}

	var buf bytes.Buffer
	w, err := NewWriter(FormatTable, &buf)
	require.NoError(t, err)
	require.NoError(t, w.Serialize(context.Background(), v))

	out := buf.String()
	assert.Contains(t, out, "kind")
	assert.Contains(t, out, "PolicyChartResult")
	assert.NotContains(t, out, "embedded")
}

func TestWriter_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(FormatTable, &buf)
	require.NoError(t, err)
	require.NoError(t, w.Serialize(context.Background(), struct{}{}))
	assert.Equal(t, "<empty>\n", buf.String())
}

func TestWriter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w, err := NewWriter(FormatJSON, &bytes.Buffer{})
	require.NoError(t, err)
	require.Error(t, w.Serialize(ctx, newSample()))
}
