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

// Package validator checks a generated policy chart before it is committed.
//
// Validation runs these steps in order and stops at the first failure:
//
//   - yaml-syntax: every .yaml file outside templates/ parses with yaml.v3
//     (files are parsed concurrently)
//   - checksums: checksums.txt, when present, matches the files
//   - helm-render: "helm template" renders the chart
//   - manifests: the rendered stream decodes into objects with apiVersion and
//     kind, including at least one policy.open-cluster-management.io/v1 Policy
//
// When helm is not installed the render steps are skipped with a warning,
// unless WithRequireHelm is set. A failed validation leaves the chart on disk.
//
//	v := validator.New(validator.WithRequireHelm(true))
//	report, err := v.Validate(ctx, "policies/foo")
package validator
