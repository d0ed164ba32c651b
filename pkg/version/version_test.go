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

package version

import (
	"errors"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr error
	}{
		{"major only", "1", Version{Major: 1, Precision: 1}, nil},
		{"major minor", "1.2", Version{Major: 1, Minor: 2, Precision: 2}, nil},
		{"full", "1.2.3", Version{Major: 1, Minor: 2, Patch: 3, Precision: 3}, nil},
		{"v prefix", "v0.1.0", Version{Major: 0, Minor: 1, Patch: 0, Precision: 3}, nil},
		{"pre-release", "1.2.3-rc.1", Version{Major: 1, Minor: 2, Patch: 3, Precision: 3, Extras: "-rc.1"}, nil},
		{"build metadata", "1.2.3+build.5", Version{Major: 1, Minor: 2, Patch: 3, Precision: 3, Extras: "+build.5"}, nil},
		{"empty", "", Version{}, ErrEmptyVersion},
		{"too many", "1.2.3.4", Version{}, ErrTooManyComponents},
		{"non numeric", "a.b", Version{}, ErrNonNumeric},
		{"empty component", "1..2", Version{}, ErrNonNumeric},
		{"negative", "-1", Version{}, ErrNegativeComponent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseVersion(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseChartVersion(t *testing.T) {
	if _, err := ParseChartVersion("0.1.0"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseChartVersion("0.1"); !errors.Is(err, ErrIncomplete) {
		t.Errorf("expected ErrIncomplete, got %v", err)
	}
	if _, err := ParseChartVersion("x"); err == nil {
		t.Error("expected error for non-numeric version")
	}
}

func TestVersionStrings(t *testing.T) {
	v, err := ParseChartVersion("v1.4.0-rc.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "1.4.0" {
		t.Errorf("String() = %q", v.String())
	}
	if v.Full() != "1.4.0-rc.2" {
		t.Errorf("Full() = %q", v.Full())
	}

	v, err = ParseVersion("2.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "2.1" {
		t.Error("precision 2 should render two components")
	}
}
