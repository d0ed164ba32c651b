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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/policygen/pkg/errors"
	"github.com/NVIDIA/policygen/pkg/policy"
	"github.com/NVIDIA/policygen/pkg/result"
)

func fooBlock(t *testing.T, opts ...policy.Option) LabelBlock {
	t.Helper()
	base := []policy.Option{
		policy.WithChannel("stable"),
		policy.WithNamespace("foo"),
	}
	desc, err := policy.New("foo", "foo-op", append(base, opts...)...)
	require.NoError(t, err)
	return BlockFor(desc)
}

// labelsAtLine10 has managedClusterSets.managed.labels: on line 10.
const labelsAtLine10 = `# AutoShift values
hubClusterSets:
  hub:
    labels:
      gitops: 'true'

managedClusterSets:
  managed:
    # managed clusters
    labels:
      gitops: 'true'
      infra-nodes: '3'
`

func TestLabelBlock_Lines(t *testing.T) {
	block := fooBlock(t)

	assert.Equal(t, []string{
		"      ### foo",
		"      foo: 'true'",
		"      foo-subscription-name: foo-op",
		"      foo-channel: stable",
		"      foo-source: redhat-operators",
		"      foo-source-namespace: openshift-marketplace",
	}, block.Lines(false))

	for _, l := range block.Lines(true) {
		assert.True(t, strings.HasPrefix(l, "#      "), l)
	}
}

func TestInsertLabels_ExactLines(t *testing.T) {
	doc, err := Parse([]byte(labelsAtLine10))
	require.NoError(t, err)

	before := doc.Lines()
	require.Equal(t, "    labels:", before[9])

	outcome, err := doc.InsertLabels(SectionManagedClusterSets, "managed", false, fooBlock(t))
	require.NoError(t, err)
	assert.Equal(t, result.OutcomeInserted, outcome)
	assert.True(t, doc.Modified())

	after := doc.Lines()
	require.Len(t, after, len(before)+6)

	// 1-based lines 11..16
	assert.Equal(t, "      ### foo", after[10])
	assert.Equal(t, "      foo: 'true'", after[11])
	assert.Equal(t, "      foo-subscription-name: foo-op", after[12])
	assert.Equal(t, "      foo-channel: stable", after[13])
	assert.Equal(t, "      foo-source: redhat-operators", after[14])
	assert.Equal(t, "      foo-source-namespace: openshift-marketplace", after[15])

	assert.Equal(t, before[:10], after[:10])
	assert.Equal(t, before[10:], after[16:])

	assert.NotContains(t, string(doc.Bytes()), "foo-version")
	require.NoError(t, doc.Validate())
}

func TestInsertLabels_Version(t *testing.T) {
	doc, err := Parse([]byte(labelsAtLine10))
	require.NoError(t, err)

	outcome, err := doc.InsertLabels(SectionManagedClusterSets, "managed", false,
		fooBlock(t, policy.WithVersion("foo.v1.2.3")))
	require.NoError(t, err)
	assert.Equal(t, result.OutcomeInserted, outcome)

	after := doc.Lines()
	assert.Len(t, after, len(strings.Split(strings.TrimSuffix(labelsAtLine10, "\n"), "\n"))+7)
	assert.Equal(t, "      foo-source-namespace: openshift-marketplace", after[15])
	assert.Equal(t, "      foo-version: 'foo.v1.2.3'", after[16])
	assert.Equal(t, "      gitops: 'true'", after[17])
}

func TestInsertLabels_Idempotent(t *testing.T) {
	doc, err := Parse([]byte(labelsAtLine10))
	require.NoError(t, err)
	block := fooBlock(t)

	outcome, err := doc.InsertLabels(SectionHubClusterSets, "hub", false, block)
	require.NoError(t, err)
	require.Equal(t, result.OutcomeInserted, outcome)
	once := string(doc.Bytes())

	outcome, err = doc.InsertLabels(SectionHubClusterSets, "hub", false, block)
	require.NoError(t, err)
	assert.Equal(t, result.OutcomeAlreadyPresent, outcome)
	assert.Equal(t, once, string(doc.Bytes()))

	// a fresh parse of the written output sees the component too
	reparsed, err := Parse(doc.Bytes())
	require.NoError(t, err)
	outcome, err = reparsed.InsertLabels(SectionHubClusterSets, "hub", false, block)
	require.NoError(t, err)
	assert.Equal(t, result.OutcomeAlreadyPresent, outcome)
	assert.False(t, reparsed.Modified())
}

func TestInsertLabels_CommentedRoundTrip(t *testing.T) {
	data := `clusters:
  local-cluster:
    labels:
      gitops: 'true'
#clusters:
#  local-cluster:
#    labels:
#      gitops: 'true'
`
	doc, err := Parse([]byte(data))
	require.NoError(t, err)
	block := fooBlock(t)

	outcome, err := doc.InsertLabels(SectionClusters, "local-cluster", true, block)
	require.NoError(t, err)
	require.Equal(t, result.OutcomeInserted, outcome)

	lines := doc.Lines()
	assert.Equal(t, "#    labels:", lines[6])
	assert.Equal(t, "#      ### foo", lines[7])
	assert.Equal(t, "#      foo: 'true'", lines[8])
	assert.Equal(t, "#      gitops: 'true'", lines[13])

	assert.True(t, doc.HasComponent(SectionClusters, "local-cluster", true, "foo"))
	assert.False(t, doc.HasComponent(SectionClusters, "local-cluster", false, "foo"))

	// the active form still accepts its own block
	outcome, err = doc.InsertLabels(SectionClusters, "local-cluster", false, block)
	require.NoError(t, err)
	assert.Equal(t, result.OutcomeInserted, outcome)
	assert.Equal(t, "      ### foo", doc.Lines()[3])
	assert.True(t, doc.HasComponent(SectionClusters, "local-cluster", false, "foo"))
	require.NoError(t, doc.Validate())
}

func TestInsertLabels_NotInserted(t *testing.T) {
	tests := []struct {
		name       string
		section    string
		subsection string
		commented  bool
		want       result.Outcome
	}{
		{"missing section", SectionClusters, "local", false, result.OutcomeNotFound},
		{"wrong form", SectionHubClusterSets, "hub", true, result.OutcomeNotFound},
		{"missing subsection", SectionHubClusterSets, "nope", false, result.OutcomeNotFound},
		{"no labels marker", SectionManagedClusterSets, "edge", false, result.OutcomeNoLabels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(sampleValues))
			require.NoError(t, err)

			outcome, err := doc.InsertLabels(tt.section, tt.subsection, tt.commented, fooBlock(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome)
			assert.False(t, doc.Modified())
			assert.Equal(t, sampleValues, string(doc.Bytes()))
		})
	}
}

func TestInsertLabels_EmptyBlock(t *testing.T) {
	doc, err := Parse([]byte(sampleValues))
	require.NoError(t, err)

	_, err = doc.InsertLabels(SectionHubClusterSets, "hub", false, LabelBlock{})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidRequest))
}

func TestInsertLabels_LabelsOnLastLine(t *testing.T) {
	block := fooBlock(t)

	t.Run("no trailing newline", func(t *testing.T) {
		doc, err := Parse([]byte("clusters:\n  local:\n    labels:"))
		require.NoError(t, err)

		outcome, err := doc.InsertLabels(SectionClusters, "local", false, block)
		require.NoError(t, err)
		require.Equal(t, result.OutcomeInserted, outcome)

		want := "clusters:\n  local:\n    labels:\n" + strings.Join(block.Lines(false), "\n")
		assert.Equal(t, want, string(doc.Bytes()))
		require.NoError(t, doc.Validate())
	})

	t.Run("trailing newline", func(t *testing.T) {
		doc, err := Parse([]byte("clusters:\n  local:\n    labels:\n"))
		require.NoError(t, err)

		_, err = doc.InsertLabels(SectionClusters, "local", false, block)
		require.NoError(t, err)

		want := "clusters:\n  local:\n    labels:\n" + strings.Join(block.Lines(false), "\n") + "\n"
		assert.Equal(t, want, string(doc.Bytes()))
	})

	t.Run("commented", func(t *testing.T) {
		doc, err := Parse([]byte("#clusters:\n#  local:\n#    labels:"))
		require.NoError(t, err)

		_, err = doc.InsertLabels(SectionClusters, "local", true, block)
		require.NoError(t, err)

		lines := doc.Lines()
		assert.Len(t, lines, 9)
		assert.Equal(t, "#      ### foo", lines[3])
		assert.False(t, strings.HasSuffix(string(doc.Bytes()), "\n"))
	})
}

func TestInsertLabels_CRLF(t *testing.T) {
	doc, err := Parse([]byte("clusters:\r\n  local:\r\n    labels:\r\n      a: b\r\n"))
	require.NoError(t, err)

	_, err = doc.InsertLabels(SectionClusters, "local", false, fooBlock(t))
	require.NoError(t, err)

	for _, l := range doc.Lines() {
		assert.True(t, strings.HasSuffix(l, "\r"), "%q", l)
	}
	require.NoError(t, doc.Validate())
}

func TestSave_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(labelsAtLine10), 0o640))

	doc, err := Parse([]byte(labelsAtLine10))
	require.NoError(t, err)
	_, err = doc.InsertLabels(SectionManagedClusterSets, "managed", false, fooBlock(t))
	require.NoError(t, err)

	require.NoError(t, doc.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(doc.Bytes()), string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestSave_RefusesInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	doc, err := Parse([]byte("a: 1\n"))
	require.NoError(t, err)
	doc.lines = append(doc.lines, "b: [")
	doc.modified = true

	err = doc.Save(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidationFailed))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))
}

func TestInsertLabelsAt_RepeatedSection(t *testing.T) {
	doc, err := Parse([]byte(repeatedValues))
	require.NoError(t, err)

	outcome, err := doc.InsertLabelsAt(2, "b", fooBlock(t))
	require.NoError(t, err)
	assert.Equal(t, result.OutcomeInserted, outcome)
	assert.Equal(t, "#      ### foo", doc.Lines()[11])
	assert.False(t, doc.HasComponent(SectionClusters, "a", true, "foo"))

	outcome, err = doc.InsertLabelsAt(3, "b", fooBlock(t))
	require.NoError(t, err)
	assert.Equal(t, result.OutcomeNotFound, outcome)

	_, err = doc.InsertLabelsAt(0, "a", LabelBlock{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidRequest))
}
