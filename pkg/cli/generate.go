/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/policygen/pkg/chart"
	"github.com/NVIDIA/policygen/pkg/defaults"
	apperrors "github.com/NVIDIA/policygen/pkg/errors"
	"github.com/NVIDIA/policygen/pkg/header"
	"github.com/NVIDIA/policygen/pkg/oci"
	"github.com/NVIDIA/policygen/pkg/policy"
	"github.com/NVIDIA/policygen/pkg/result"
	"github.com/NVIDIA/policygen/pkg/scaffold"
	"github.com/NVIDIA/policygen/pkg/serializer"
	"github.com/NVIDIA/policygen/pkg/validator"
	"github.com/NVIDIA/policygen/pkg/values"
)

// generateCmdOptions holds parsed options for the generate command.
type generateCmdOptions struct {
	component    string
	subscription string

	desc      *policy.Descriptor
	source    *scaffold.Source
	outputDir string

	addToAutoShift bool
	valuesFiles    []string
	sections       []string

	checksums       bool
	skipRender      bool
	requireHelm     bool
	showIntegration bool

	summaryFormat serializer.Format

	pushRef     *oci.Reference
	plainHTTP   bool
	insecureTLS bool
}

// parseGenerateCmdOptions validates everything that can be checked before
// the filesystem is touched.
func parseGenerateCmdOptions(cmd *cli.Command) (*generateCmdOptions, error) {
	args := cmd.Args().Slice()
	if len(args) != 2 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("expected <component-name> and <subscription-name>, got %d arguments", len(args)))
	}

	opts := &generateCmdOptions{
		component:       args[0],
		subscription:    args[1],
		outputDir:       cmd.String("output-dir"),
		addToAutoShift:  cmd.Bool("add-to-autoshift"),
		sections:        cmd.StringSlice("sections"),
		checksums:       cmd.Bool("checksums"),
		skipRender:      cmd.Bool("skip-render"),
		requireHelm:     cmd.Bool("require-helm"),
		showIntegration: cmd.Bool("show-integration"),
		plainHTTP:       cmd.Bool("plain-http"),
		insecureTLS:     cmd.Bool("insecure-tls"),
	}

	descOpts := []policy.Option{
		policy.WithChannel(cmd.String("channel")),
		policy.WithNamespace(cmd.String("namespace")),
		policy.WithNamespaceScoped(cmd.Bool("namespace-scoped")),
		policy.WithSource(cmd.String("source")),
		policy.WithSourceNamespace(cmd.String("source-namespace")),
		policy.WithChartVersion(cmd.String("chart-version")),
	}
	if v := cmd.String("version"); v != "" {
		descOpts = append(descOpts, policy.WithVersion(v))
	}

	desc, err := policy.New(opts.component, opts.subscription, descOpts...)
	if err != nil {
		return nil, err
	}
	opts.desc = desc

	if f := cmd.String("summary-format"); f != "" {
		if opts.summaryFormat, err = serializer.ParseFormat(f); err != nil {
			return nil, err
		}
	}

	if err := values.ValidateSections(opts.sections); err != nil {
		return nil, err
	}

	if opts.addToAutoShift {
		if opts.valuesFiles, err = expandValuesFiles(cmd.StringSlice("values-files")); err != nil {
			return nil, err
		}
	}

	if target := cmd.String("push"); target != "" {
		ref, err := oci.ParseReference(target)
		if err != nil {
			return nil, err
		}
		opts.pushRef = ref.WithDefaultTag(desc.ChartVersion())
	}

	opts.source = scaffold.Embedded()
	if dir := cmd.String("template-dir"); dir != "" {
		if opts.source, err = scaffold.FromDir(dir); err != nil {
			return nil, err
		}
	}

	return opts, nil
}

// expandValuesFiles resolves glob patterns. Plain paths are kept as given so
// a missing file is reported by the updater instead of dropped silently.
func expandValuesFiles(entries []string) ([]string, error) {
	files := make([]string, 0, len(entries))
	seen := make(map[string]bool)

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		matches := []string{entry}
		if strings.ContainsAny(entry, "*?[") {
			var err error
			matches, err = filepath.Glob(entry)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
					fmt.Sprintf("invalid values file pattern %q", entry), err)
			}
			sort.Strings(matches)
			if len(matches) == 0 {
				slog.Warn("values file pattern matched nothing", "pattern", entry)
			}
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	return files, nil
}

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Scaffold an operator-installation policy chart",
		ArgsUsage: "--channel <channel> --namespace <namespace> <component-name> <subscription-name>",
		Description: `Create <output-dir>/<component-name> holding a Helm chart with an RHACM
Policy, Placement and PlacementBinding that install one OLM operator.

The component name must match ^[a-z0-9-]+$. The command refuses to overwrite
an existing chart directory.

With --add-to-autoshift the component's label block is inserted under every
labels: marker of the hubClusterSets, managedClusterSets and clusters sections
(active or commented-out) of the values files. Subsections already naming the
component are left alone.

After generation the chart is validated: plain YAML files are parsed and, when
helm is on PATH, the chart is rendered with "helm template". A validation
failure leaves the generated directory on disk for inspection.

Examples:

Generate a chart for cert-manager:
  policygen generate --channel stable-v1 --namespace cert-manager \
    cert-manager openshift-cert-manager-operator

Pin a version, enable it in the AutoShift values files and print the summary as JSON:
  policygen generate --channel stable --namespace openshift-gitops-operator \
    --version 1.15.0 --add-to-autoshift --summary-format json \
    gitops openshift-gitops-operator

Publish the chart to an OCI registry:
  policygen generate --channel stable --namespace foo \
    --push oci://ghcr.io/example/policies/foo foo foo-operator`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "channel",
				Usage: "operator subscription channel (required)",
			},
			&cli.StringFlag{
				Name:  "namespace",
				Usage: "namespace the operator is installed into (required)",
			},
			&cli.StringFlag{
				Name:  "source",
				Value: defaults.CatalogSource,
				Usage: "catalog source of the operator",
			},
			&cli.StringFlag{
				Name:  "source-namespace",
				Value: defaults.CatalogSourceNamespace,
				Usage: "namespace of the catalog source",
			},
			&cli.StringFlag{
				Name:  "version",
				Usage: "pin the operator to this CSV version",
			},
			&cli.BoolFlag{
				Name:  "namespace-scoped",
				Usage: "create an OperatorGroup that targets only the install namespace",
			},
			&cli.BoolFlag{
				Name:  "add-to-autoshift",
				Usage: "insert the component labels into the AutoShift values files",
			},
			&cli.StringSliceFlag{
				Name:  "values-files",
				Value: []string{defaults.ValuesFilesGlob},
				Usage: "values files or glob patterns to update (comma-separated)",
			},
			&cli.StringSliceFlag{
				Name:  "sections",
				Usage: "limit label insertion to these sections (hubClusterSets, managedClusterSets, clusters)",
			},
			&cli.BoolFlag{
				Name:  "show-integration",
				Usage: "print instructions for wiring the chart into AutoShift",
			},
			&cli.StringFlag{
				Name:  "output-dir",
				Value: defaults.OutputDir,
				Usage: "directory the chart directory is created in",
			},
			&cli.StringFlag{
				Name:  "template-dir",
				Usage: "read templates from this directory instead of the built-in set",
			},
			&cli.StringFlag{
				Name:  "chart-version",
				Value: defaults.ChartVersion,
				Usage: "semantic version of the generated chart",
			},
			&cli.BoolFlag{
				Name:  "checksums",
				Usage: "write checksums.txt into the chart directory",
			},
			&cli.BoolFlag{
				Name:  "skip-render",
				Usage: "skip rendering the chart with helm",
			},
			&cli.BoolFlag{
				Name:  "require-helm",
				Usage: "fail when helm is not installed instead of skipping the render",
			},
			&cli.StringFlag{
				Name:  "summary-format",
				Usage: fmt.Sprintf("print the run summary in this format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
			},
			&cli.StringFlag{
				Name:  "push",
				Usage: "push the chart to oci://registry/repository[:tag] (tag defaults to the chart version)",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "use HTTP instead of HTTPS for the registry",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "skip TLS verification for the registry",
			},
		},
		Action: withUsage(func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseGenerateCmdOptions(cmd)
			if err != nil {
				return err
			}
			return runGenerate(ctx, opts, cmd.Root().Writer)
		}),
	}
}

// runGenerate executes a generate invocation with validated options.
func runGenerate(ctx context.Context, opts *generateCmdOptions, out io.Writer) error {
	start := time.Now()
	desc := opts.desc

	slog.Info("generating policy chart",
		"component", desc.Component(),
		"subscription", desc.Subscription(),
		"templates", opts.source.Name(),
		"output", opts.outputDir,
	)

	gen := chart.NewGenerator(
		chart.WithSource(opts.source),
		chart.WithChecksums(opts.checksums),
	)

	res, err := gen.Generate(ctx, desc, opts.outputDir)
	if err != nil {
		return err
	}
	res.Init(header.KindChartResult, header.APIVersion, version)

	if opts.addToAutoShift {
		updater := values.NewUpdater(values.WithSections(opts.sections))
		for _, rep := range updater.Apply(ctx, opts.valuesFiles, desc) {
			res.AddValuesReport(rep)
		}
	}

	v := validator.New(
		validator.WithSkipRender(opts.skipRender),
		validator.WithRequireHelm(opts.requireHelm),
	)
	report, err := v.Validate(ctx, res.ChartDir)
	if err != nil {
		return err
	}
	res.Rendered = report.Rendered()
	for _, w := range report.Warnings() {
		res.AddWarning(w)
	}

	if opts.pushRef != nil {
		pushed, err := oci.Push(ctx, oci.PushOptions{
			SourceDir:   res.ChartDir,
			Reference:   opts.pushRef,
			PlainHTTP:   opts.plainHTTP,
			InsecureTLS: opts.insecureTLS,
		})
		if err != nil {
			return err
		}
		res.Reference = pushed.Reference
		res.Digest = pushed.Digest
	}

	res.Duration = time.Since(start)

	slog.Info("policy chart generated",
		"component", res.Component,
		"dir", res.ChartDir,
		"files", len(res.Files),
		"warnings", len(res.Warnings),
		"duration", res.Duration,
	)

	return writeGenerateOutput(ctx, out, opts, res)
}

func writeGenerateOutput(ctx context.Context, out io.Writer, opts *generateCmdOptions, res *result.Result) error {
	if opts.summaryFormat != "" {
		w, err := serializer.NewWriter(opts.summaryFormat, out)
		if err != nil {
			return err
		}
		if err := w.Serialize(ctx, res); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, res.Summary())
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  warning: %s\n", w)
		}
		if res.Reference != "" {
			fmt.Fprintf(out, "Pushed %s@%s\n", res.Reference, res.Digest)
		}
	}

	if opts.showIntegration {
		fmt.Fprintln(out)
		fmt.Fprint(out, integrationInstructions(opts.desc, res.ChartDir))
	}
	return nil
}
