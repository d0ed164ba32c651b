/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	apperrors "github.com/NVIDIA/policygen/pkg/errors"
	"github.com/NVIDIA/policygen/pkg/header"
	"github.com/NVIDIA/policygen/pkg/serializer"
	"github.com/NVIDIA/policygen/pkg/values"
)

// subsectionRow is one located subsection as reported by the sections command.
type subsectionRow struct {
	Section    string   `json:"section" yaml:"section"`
	Commented  bool     `json:"commented" yaml:"commented"`
	Subsection string   `json:"subsection" yaml:"subsection"`
	Line       int      `json:"line" yaml:"line"`
	LabelsLine int      `json:"labelsLine,omitempty" yaml:"labelsLine,omitempty"`
	Labels     []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// sectionList is the structured output of the sections command.
type sectionList struct {
	header.Header `json:",inline" yaml:",inline"`

	File        string          `json:"file" yaml:"file"`
	Subsections []subsectionRow `json:"subsections" yaml:"subsections"`
}

func sectionsCmd() *cli.Command {
	return &cli.Command{
		Name:      "sections",
		Usage:     "List the cluster sets and clusters found in a values file",
		ArgsUsage: "<values-file>",
		Description: `Show the subsections the label inserter would target in a values file,
with 1-based line numbers of each subsection and its labels: marker.

Only active sections are listed unless --commented is set, in which case only
commented-out sections are listed.

Examples:

  policygen sections autoshift/values.hub.yaml
  policygen sections --commented --format yaml autoshift/values.hub.yaml`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "commented",
				Usage: "list commented-out sections instead of active ones",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   string(serializer.FormatTable),
				Usage:   "output format (table, json, yaml)",
			},
		},
		Action: withUsage(func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return apperrors.New(apperrors.ErrCodeInvalidRequest,
					fmt.Sprintf("expected exactly one <values-file>, got %d arguments", cmd.Args().Len()))
			}

			format, err := serializer.ParseFormat(cmd.String("format"))
			if err != nil {
				return err
			}

			path := cmd.Args().First()
			rows, err := locateSubsections(path, cmd.Bool("commented"))
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			if format == serializer.FormatTable {
				return writeSubsectionTable(out, rows)
			}

			w, err := serializer.NewWriter(format, out)
			if err != nil {
				return err
			}
			list := sectionList{File: path, Subsections: rows}
			list.Init(header.KindSectionList, header.APIVersion, version)
			return w.Serialize(ctx, list)
		}),
	}
}

func locateSubsections(path string, commented bool) ([]subsectionRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeNotFound,
			"failed to read values file", err, map[string]any{"path": path})
	}

	doc, err := values.Parse(data)
	if err != nil {
		return nil, err
	}

	rows := make([]subsectionRow, 0)
	for _, s := range doc.Sections() {
		if s.Commented != commented {
			continue
		}
		for _, sub := range s.Subsections {
			row := subsectionRow{
				Section:    s.Name,
				Commented:  s.Commented,
				Subsection: sub.Name,
				Line:       sub.Line + 1,
			}
			if sub.HasLabels() {
				row.LabelsLine = sub.LabelsLine + 1
				for _, l := range sub.Labels {
					row.Labels = append(row.Labels, l.Key)
				}
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func writeSubsectionTable(out io.Writer, rows []subsectionRow) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTION\tSUBSECTION\tLINE\tLABELS LINE\tLABELS")
	for _, r := range rows {
		labelsLine := "-"
		if r.LabelsLine > 0 {
			labelsLine = strconv.Itoa(r.LabelsLine)
		}
		name := r.Section
		if r.Commented {
			name = "#" + name
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\n", name, r.Subsection, r.Line, labelsLine, len(r.Labels))
	}
	return tw.Flush()
}
