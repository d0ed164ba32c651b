// Package cli implements the policygen command-line interface.
//
// # Overview
//
// policygen scaffolds Helm charts that hold an RHACM operator-installation
// policy for one OLM operator and enables the operator in AutoShift values files.
//
// # Commands
//
// generate - Create a policy chart:
//
//	policygen generate --channel stable --namespace foo [flags] <component> <subscription>
//
// Renders Chart.yaml, values.yaml, README.md and the policy template into
// <output-dir>/<component>, optionally inserts the component's label block into
// values files, validates the chart and optionally pushes it to an OCI registry.
//
// sections - Inspect a values file:
//
//	policygen sections [--commented] [--format table|json|yaml] <values-file>
//
// Lists the cluster sets and clusters the label inserter would target.
//
// version - Print build information.
//
// # Global Flags
//
//	--log-level    Logging verbosity (debug, info, warn, error)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Environment Variables
//
//	LOG_LEVEL  Default for --log-level
//
// # Exit Codes
//
//	0  Success
//	1  Invalid arguments, existing output directory, missing templates,
//	   failed validation, failed push or unknown flag
//
// Usage errors additionally print a usage line to stderr.
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/policygen/pkg/cli.version=1.0.0'"
package cli
