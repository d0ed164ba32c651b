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

package defaults

import "time"

// External tool timeouts.
const (
	// HelmRenderTimeout bounds a single `helm template` invocation.
	HelmRenderTimeout = 60 * time.Second

	// HelmVersionTimeout bounds the `helm version` probe.
	HelmVersionTimeout = 10 * time.Second
)

// Registry timeouts.
const (
	// OCIPushTimeout is the maximum duration for packaging and pushing a chart.
	OCIPushTimeout = 2 * time.Minute
)

// Generation defaults.
const (
	// OutputDir is the directory under which chart directories are created.
	OutputDir = "policies"

	// ValuesFilesGlob selects the values documents updated by --add-to-autoshift
	// when no explicit list is given.
	ValuesFilesGlob = "autoshift/values*.yaml"

	// CatalogSource is the default operator catalog source.
	CatalogSource = "redhat-operators"

	// CatalogSourceNamespace is the default namespace of the catalog source.
	CatalogSourceNamespace = "openshift-marketplace"

	// ChartVersion is the version written to Chart.yaml when none is given.
	ChartVersion = "0.1.0"

	// PolicyNamespace is the hub namespace the generated policies live in.
	PolicyNamespace = "open-cluster-policies"
)

// File permissions for generated content.
const (
	// DirPerm is applied to created directories.
	DirPerm = 0o755

	// FilePerm is applied to generated files.
	FilePerm = 0o644
)
