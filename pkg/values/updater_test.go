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

func fooDescriptor(t *testing.T) *policy.Descriptor {
	t.Helper()
	desc, err := policy.New("foo", "foo-op",
		policy.WithChannel("stable"),
		policy.WithNamespace("foo"),
	)
	require.NoError(t, err)
	return desc
}

func writeValues(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestUpdater_Apply(t *testing.T) {
	dir := t.TempDir()
	path := writeValues(t, dir, "values.hub.yaml", sampleValues)

	reports := NewUpdater().Apply(context.Background(), []string{path}, fooDescriptor(t))
	require.Len(t, reports, 1)

	rep := reports[0]
	assert.True(t, rep.Written)
	assert.Equal(t, 3, rep.Inserted())
	assert.Equal(t, []result.Change{
		{Section: SectionHubClusterSets, Subsection: "hub", Outcome: result.OutcomeInserted},
		{Section: SectionManagedClusterSets, Subsection: "managed", Outcome: result.OutcomeInserted},
		{Section: SectionManagedClusterSets, Subsection: "edge", Outcome: result.OutcomeNoLabels},
		{Section: SectionClusters, Subsection: "local-cluster", Commented: true, Outcome: result.OutcomeInserted},
		{Section: SectionClusters, Subsection: "other", Commented: true, Outcome: result.OutcomeNoLabels},
	}, rep.Changes)
	assert.Len(t, rep.Warnings, 2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Equal(t, 2, strings.Count(content, "\n      foo: 'true'\n"))
	assert.Equal(t, 1, strings.Count(content, "\n#      foo: 'true'\n"))
	assert.True(t, strings.HasSuffix(content, "gitops:\n  enabled: true\n"))

	doc, err := Parse(data)
	require.NoError(t, err)
	assert.True(t, doc.HasComponent(SectionClusters, "local-cluster", true, "foo"))
}

func TestUpdater_ApplyTwiceIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := writeValues(t, dir, "values.yaml", sampleValues)
	u := NewUpdater()

	u.Apply(context.Background(), []string{path}, fooDescriptor(t))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	reports := u.Apply(context.Background(), []string{path}, fooDescriptor(t))
	require.Len(t, reports, 1)
	assert.False(t, reports[0].Written)
	assert.Zero(t, reports[0].Inserted())

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestUpdater_NoMatchingSection(t *testing.T) {
	dir := t.TempDir()
	content := "gitops:\n  enabled: true\n# trailing comment\n"
	path := writeValues(t, dir, "values.yaml", content)

	reports := NewUpdater().Apply(context.Background(), []string{path}, fooDescriptor(t))
	require.Len(t, reports, 1)
	assert.False(t, reports[0].Written)
	assert.Empty(t, reports[0].Changes)
	require.Len(t, reports[0].Warnings, 1)
	assert.Contains(t, reports[0].Warnings[0], "no matching sections")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestUpdater_SpacedCommentMarker(t *testing.T) {
	dir := t.TempDir()
	content := "# clusters:\n#   local-cluster:\n#     labels:\n#       gitops: 'true'\n"
	path := writeValues(t, dir, "values.yaml", content)

	reports := NewUpdater().Apply(context.Background(), []string{path}, fooDescriptor(t))
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Written)
	assert.Empty(t, reports[0].Warnings)
	assert.Equal(t, []result.Change{
		{Section: SectionClusters, Subsection: "local-cluster", Commented: true, Outcome: result.OutcomeInserted},
	}, reports[0].Changes)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	assert.Equal(t, "#     labels:", lines[2])
	assert.Equal(t, "#       ### foo", lines[3])
	assert.Equal(t, "#       foo: 'true'", lines[4])
	assert.Equal(t, "#       gitops: 'true'", lines[9])

	doc, err := Parse(data)
	require.NoError(t, err)
	assert.True(t, doc.HasComponent(SectionClusters, "local-cluster", true, "foo"))
}

func TestUpdater_SectionWithoutSubsections(t *testing.T) {
	dir := t.TempDir()
	content := "clusters: {}\nhubClusterSets:\n  # none yet\n"
	path := writeValues(t, dir, "values.yaml", content)

	reports := NewUpdater().Apply(context.Background(), []string{path}, fooDescriptor(t))
	require.Len(t, reports, 1)
	assert.False(t, reports[0].Written)
	assert.Empty(t, reports[0].Changes)
	require.Len(t, reports[0].Warnings, 1)
	assert.Contains(t, reports[0].Warnings[0], "hubClusterSets at line 2 has no subsections")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestUpdater_RepeatedSections(t *testing.T) {
	dir := t.TempDir()
	path := writeValues(t, dir, "values.yaml", repeatedValues)

	reports := NewUpdater().Apply(context.Background(), []string{path}, fooDescriptor(t))
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Written)
	assert.Empty(t, reports[0].Warnings)
	assert.Equal(t, []result.Change{
		{Section: SectionClusters, Subsection: "a", Commented: true, Outcome: result.OutcomeInserted},
		{Section: SectionHubClusterSets, Subsection: "hub", Outcome: result.OutcomeInserted},
		{Section: SectionClusters, Subsection: "b", Commented: true, Outcome: result.OutcomeInserted},
	}, reports[0].Changes)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "#      ### foo\n"))
	assert.Equal(t, 1, strings.Count(string(data), "\n      ### foo\n"))

	doc, err := Parse(data)
	require.NoError(t, err)
	for _, s := range doc.Sections() {
		for _, sub := range s.Subsections {
			assert.True(t, doc.hasComponent(s, sub, "foo"), "%s.%s", s.Name, sub.Name)
		}
	}
}

func TestUpdater_WithSections(t *testing.T) {
	dir := t.TempDir()
	path := writeValues(t, dir, "values.yaml", sampleValues)

	reports := NewUpdater(WithSections([]string{SectionClusters})).
		Apply(context.Background(), []string{path}, fooDescriptor(t))
	require.Len(t, reports, 1)

	for _, c := range reports[0].Changes {
		assert.Equal(t, SectionClusters, c.Section)
	}
	assert.Equal(t, 1, reports[0].Inserted())
}

func TestUpdater_SkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeValues(t, dir, "good.yaml", sampleValues)
	bad := writeValues(t, dir, "bad.yaml", "clusters: [\n")
	missing := filepath.Join(dir, "missing.yaml")

	reports := NewUpdater().Apply(context.Background(), []string{missing, bad, good}, fooDescriptor(t))
	require.Len(t, reports, 3)

	assert.False(t, reports[0].Written)
	require.Len(t, reports[0].Warnings, 1)
	assert.Contains(t, reports[0].Warnings[0], "missing.yaml")

	assert.False(t, reports[1].Written)
	require.Len(t, reports[1].Warnings, 1)
	assert.Contains(t, reports[1].Warnings[0], "not valid YAML")

	assert.True(t, reports[2].Written)
}

func TestUpdater_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeValues(t, dir, "values.yaml", sampleValues)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports := NewUpdater().Apply(ctx, []string{path}, fooDescriptor(t))
	require.Len(t, reports, 1)
	assert.False(t, reports[0].Written)
	assert.NotEmpty(t, reports[0].Warnings)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleValues, string(data))
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, SectionClusters, Suggest("cluster"))
	assert.Equal(t, SectionHubClusterSets, Suggest("hubclustersets"))
	assert.Equal(t, SectionManagedClusterSets, Suggest("managedClusterSet"))
	assert.Empty(t, Suggest("completely-unrelated"))
}

func TestValidateSections(t *testing.T) {
	require.NoError(t, ValidateSections(nil))
	require.NoError(t, ValidateSections(KnownSections))

	err := ValidateSections([]string{SectionClusters, "clustres"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidRequest))
	assert.Contains(t, err.Error(), `did you mean "clusters"`)

	err = ValidateSections([]string{"xyz-unknown-name"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid: hubClusterSets, managedClusterSets, clusters")
}
