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

// Package values adds operator label blocks to AutoShift values documents.
//
// A values document has up to three top-level sections (hubClusterSets,
// managedClusterSets, clusters), each either active or commented out with a
// leading '#'. Each section holds named subsections with an optional labels:
// mapping:
//
//	managedClusterSets:
//	  managed:
//	    labels:
//	      ### foo
//	      foo: 'true'
//	      foo-subscription-name: foo-op
//
// The document is kept as lines so that everything outside an inserted block
// is preserved byte for byte, comments included. Structure is read from
// indentation (2, 4 and 6 spaces below the header). A commented section
// header is "#name:" or "# name:"; every line of that section is read after
// stripping the same marker ("#" or "# ") and inserted lines carry it too.
// A file may repeat a section; each occurrence is processed. Active sections are
// cross-checked against a yaml.v3 parse and a document that no longer parses
// is never saved.
//
// Typical use:
//
//	u := values.NewUpdater(values.WithSections([]string{"clusters"}))
//	reports := u.Apply(ctx, []string{"autoshift/values.hub.yaml"}, desc)
//
// Saving writes a temporary file next to the target and renames it into
// place. Concurrent writers to the same file are not coordinated; the last
// rename wins.
package values
