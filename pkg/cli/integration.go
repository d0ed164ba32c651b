/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/policygen/pkg/defaults"
	"github.com/NVIDIA/policygen/pkg/policy"
	"github.com/NVIDIA/policygen/pkg/values"
)

// integrationInstructions describes how to enable a generated chart in AutoShift.
func integrationInstructions(desc *policy.Descriptor, chartDir string) string {
	var b strings.Builder
	c := desc.Component()

	fmt.Fprintf(&b, "AutoShift integration for %s\n\n", c)

	fmt.Fprintf(&b, "1. Review and commit the generated chart:\n\n     %s\n\n", chartDir)

	fmt.Fprintf(&b, "2. Enable the operator on a cluster set or cluster by adding these labels\n")
	fmt.Fprintf(&b, "   under its labels: key in %s\n", defaults.ValuesFilesGlob)
	fmt.Fprintf(&b, "   (%s), or rerun with --add-to-autoshift:\n\n",
		strings.Join(values.KnownSections, ", "))
	for _, line := range values.BlockFor(desc).Lines(false) {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "3. Override settings for a single managed cluster with cluster labels:\n\n")
	for _, l := range desc.Labels()[1:] {
		fmt.Fprintf(&b, "     autoshift.io/%s=%s\n", l.Key, l.Value)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "4. The policy is placed on clusters labelled autoshift.io/%s=true and\n", c)
	fmt.Fprintf(&b, "   installs %s from %s into namespace %s.\n",
		desc.Subscription(), desc.Source(), desc.Namespace())

	return b.String()
}
