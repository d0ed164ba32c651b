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

// Package serializer writes summaries as JSON, YAML or a flattened table.
//
//	w, err := serializer.NewWriter(serializer.FormatYAML, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	if err := w.Serialize(ctx, res); err != nil {
//	    return err
//	}
//
// The table format flattens nested structs, maps and slices into dotted keys
// named after the json tags, e.g. "values_files.[0].path".
package serializer

import "context"

// Serializer writes a value in some output format.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}
