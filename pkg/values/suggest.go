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
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	apperrors "github.com/NVIDIA/policygen/pkg/errors"
)

// maxSuggestDistance bounds how far a typo may be from a known section name.
const maxSuggestDistance = 4

// Suggest returns the known section name closest to name, or "" when none
// is close enough.
func Suggest(name string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, known := range KnownSections {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(known))
		if d < bestDist {
			best, bestDist = known, d
		}
	}
	return best
}

// ValidateSections checks a --sections list against the known names.
func ValidateSections(names []string) error {
	for _, n := range names {
		if slices.Contains(KnownSections, n) {
			continue
		}
		msg := fmt.Sprintf("unknown section %q (valid: %s)", n, strings.Join(KnownSections, ", "))
		if s := Suggest(n); s != "" {
			msg = fmt.Sprintf("unknown section %q, did you mean %q?", n, s)
		}
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, msg,
			map[string]any{"section": n})
	}
	return nil
}
