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

// Package scaffold renders chart files from templates with {{NAME}} placeholders.
//
// Templates are plain text. Only tokens matching {{[A-Z][A-Z0-9_]*}} are
// placeholders, so Helm actions ({{ .Values.x }}) and RHACM hub templates
// pass through untouched. Placeholders without a value are removed.
//
// A Source is either the embedded default template set or a user directory:
//
//	src, err := scaffold.FromDir("./my-templates")
//	if err != nil {
//	    return err
//	}
//	n, err := scaffold.RenderFile(src, scaffold.TemplateChart, "out/Chart.yaml", desc.Placeholders())
package scaffold
