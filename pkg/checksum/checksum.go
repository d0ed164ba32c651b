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

package checksum

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/policygen/pkg/defaults"
	apperrors "github.com/NVIDIA/policygen/pkg/errors"
)

// FileName is the name of the checksum file inside a chart directory.
const FileName = "checksums.txt"

// Generate writes a checksums.txt file into dir containing the SHA256 of each
// file, relative to dir. It returns the path of the checksum file.
func Generate(ctx context.Context, dir string, files []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	lines := make([]string, 0, len(files))
	for _, file := range files {
		sum, err := fileSum(file)
		if err != nil {
			return "", err
		}

		relPath, err := filepath.Rel(dir, file)
		if err != nil {
			relPath = file
		}
		lines = append(lines, fmt.Sprintf("%s  %s", sum, filepath.ToSlash(relPath)))
	}

	path := Path(dir)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), defaults.FilePerm); err != nil {
		return "", fmt.Errorf("failed to write checksums: %w", err)
	}

	slog.Debug("checksums generated",
		"file_count", len(lines),
		"path", path,
	)

	return path, nil
}

// Verify re-computes every checksum listed in dir's checksums.txt.
// A missing checksum file is a not-found error.
func Verify(ctx context.Context, dir string) error {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeNotFound, "checksum file not readable", err)
	}

	var mismatched []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		want, rel, ok := strings.Cut(line, "  ")
		if !ok {
			return apperrors.New(apperrors.ErrCodeValidationFailed,
				fmt.Sprintf("malformed checksum line %q", line))
		}

		got, err := fileSum(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil || got != want {
			mismatched = append(mismatched, rel)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read checksums: %w", err)
	}

	if len(mismatched) > 0 {
		return apperrors.NewWithContext(apperrors.ErrCodeValidationFailed,
			fmt.Sprintf("checksum mismatch for %v", mismatched),
			map[string]any{"files": mismatched})
	}
	return nil
}

// Path returns the full path to the checksum file in dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

func fileSum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for checksum: %w", path, err)
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
