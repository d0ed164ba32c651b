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

package policy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/policygen/pkg/defaults"
	apperrors "github.com/NVIDIA/policygen/pkg/errors"
	"github.com/NVIDIA/policygen/pkg/version"
)

// componentNamePattern is the accepted shape of a component name.
var componentNamePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Descriptor is the immutable description of one operator-installation policy.
// It is built once per invocation with New and passed to every component.
// All fields are read-only after creation.
type Descriptor struct {
	component       string
	subscription    string
	channel         string
	version         *string
	namespace       string
	namespaceScoped bool
	source          string
	sourceNamespace string
	chartVersion    string
}

// Option configures a Descriptor.
type Option func(*Descriptor)

// WithChannel sets the subscription channel.
func WithChannel(channel string) Option {
	return func(d *Descriptor) {
		d.channel = strings.TrimSpace(channel)
	}
}

// WithVersion pins the operator version (starting CSV). Empty leaves it unset.
func WithVersion(v string) Option {
	return func(d *Descriptor) {
		v = strings.TrimSpace(v)
		if v == "" {
			d.version = nil
			return
		}
		d.version = ptr.To(v)
	}
}

// WithNamespace sets the namespace the operator is installed into.
func WithNamespace(namespace string) Option {
	return func(d *Descriptor) {
		d.namespace = strings.TrimSpace(namespace)
	}
}

// WithNamespaceScoped selects an OperatorGroup that targets only the operator namespace.
func WithNamespaceScoped(scoped bool) Option {
	return func(d *Descriptor) {
		d.namespaceScoped = scoped
	}
}

// WithSource sets the catalog source. Empty keeps the default.
func WithSource(source string) Option {
	return func(d *Descriptor) {
		if s := strings.TrimSpace(source); s != "" {
			d.source = s
		}
	}
}

// WithSourceNamespace sets the catalog source namespace. Empty keeps the default.
func WithSourceNamespace(namespace string) Option {
	return func(d *Descriptor) {
		if s := strings.TrimSpace(namespace); s != "" {
			d.sourceNamespace = s
		}
	}
}

// WithChartVersion sets the version written to Chart.yaml. Empty keeps the default.
func WithChartVersion(v string) Option {
	return func(d *Descriptor) {
		if s := strings.TrimSpace(v); s != "" {
			d.chartVersion = strings.TrimPrefix(s, "v")
		}
	}
}

// New builds and validates a Descriptor.
// The returned error has code ErrCodeInvalidRequest and lists every problem found.
func New(component, subscription string, opts ...Option) (*Descriptor, error) {
	d := &Descriptor{
		component:       strings.TrimSpace(component),
		subscription:    strings.TrimSpace(subscription),
		source:          defaults.CatalogSource,
		sourceNamespace: defaults.CatalogSourceNamespace,
		chartVersion:    defaults.ChartVersion,
	}

	for _, opt := range opts {
		opt(d)
	}

	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// ValidateComponentName checks a component name without building a Descriptor.
func ValidateComponentName(name string) error {
	if problems := componentNameProblems(name); len(problems) > 0 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid component name %q: %s", name, strings.Join(problems, "; ")),
			map[string]any{"component": name})
	}
	return nil
}

func componentNameProblems(name string) []string {
	if name == "" {
		return []string{"component name is required"}
	}
	if !componentNamePattern.MatchString(name) {
		return []string{"must contain only lowercase letters, digits and '-'"}
	}
	return validation.IsDNS1123Label(name)
}

func (d *Descriptor) validate() error {
	var problems []string

	problems = append(problems, componentNameProblems(d.component)...)

	if d.subscription == "" {
		problems = append(problems, "subscription name is required")
	} else {
		for _, msg := range validation.IsDNS1123Subdomain(d.subscription) {
			problems = append(problems, "subscription name: "+msg)
		}
	}

	if d.channel == "" {
		problems = append(problems, "channel is required")
	} else if msg := scalarProblem(d.channel); msg != "" {
		problems = append(problems, "channel: "+msg)
	}

	if d.namespace == "" {
		problems = append(problems, "namespace is required")
	} else {
		for _, msg := range validation.IsDNS1123Label(d.namespace) {
			problems = append(problems, "namespace: "+msg)
		}
	}

	for _, msg := range validation.IsDNS1123Subdomain(d.source) {
		problems = append(problems, "source: "+msg)
	}
	for _, msg := range validation.IsDNS1123Label(d.sourceNamespace) {
		problems = append(problems, "source namespace: "+msg)
	}

	if d.version != nil {
		if msg := scalarProblem(*d.version); msg != "" {
			problems = append(problems, "version: "+msg)
		}
	}

	if _, err := version.ParseChartVersion(d.chartVersion); err != nil {
		problems = append(problems, fmt.Sprintf("chart version: %v", err))
	}

	if len(problems) == 0 {
		return nil
	}

	return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
		"invalid policy descriptor: "+strings.Join(problems, "; "),
		map[string]any{"component": d.component, "problems": problems})
}

// scalarProblem rejects values that cannot be written verbatim into a
// single-quoted YAML scalar or a {{NAME}} substitution.
func scalarProblem(v string) string {
	switch {
	case strings.ContainsAny(v, " \t\r\n"):
		return "must not contain whitespace"
	case strings.ContainsAny(v, `'"#`):
		return "must not contain quotes or '#'"
	case strings.Contains(v, "{{") || strings.Contains(v, "}}"):
		return "must not contain template delimiters"
	default:
		return ""
	}
}

// Component returns the component name.
func (d *Descriptor) Component() string {
	return d.component
}

// Subscription returns the operator subscription (package) name.
func (d *Descriptor) Subscription() string {
	return d.subscription
}

// Channel returns the subscription channel.
func (d *Descriptor) Channel() string {
	return d.channel
}

// Version returns the pinned operator version, or "" when unset.
func (d *Descriptor) Version() string {
	return ptr.Deref(d.version, "")
}

// HasVersion reports whether a version pin was given.
func (d *Descriptor) HasVersion() bool {
	return d.version != nil
}

// Namespace returns the operator namespace.
func (d *Descriptor) Namespace() string {
	return d.namespace
}

// NamespaceScoped reports whether the operator is namespace-scoped.
func (d *Descriptor) NamespaceScoped() bool {
	return d.namespaceScoped
}

// Source returns the catalog source.
func (d *Descriptor) Source() string {
	return d.source
}

// SourceNamespace returns the catalog source namespace.
func (d *Descriptor) SourceNamespace() string {
	return d.sourceNamespace
}

// ChartVersion returns the Chart.yaml version.
func (d *Descriptor) ChartVersion() string {
	return d.chartVersion
}

// Title returns the component name as title-cased words, e.g. "Cert Manager".
func (d *Descriptor) Title() string {
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(d.component, "-", " "))
}

// CamelKey returns the component name in camelCase, e.g. "certManager".
// It is the key of the component block in the chart values.
func (d *Descriptor) CamelKey() string {
	parts := strings.Split(d.component, "-")
	caser := cases.Title(language.English)

	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(caser.String(p))
	}
	return b.String()
}

// Label is one key/value line of a component's label block.
type Label struct {
	Key    string
	Value  string
	Quoted bool
}

// String renders the label as a YAML mapping entry.
func (l Label) String() string {
	if l.Quoted {
		return fmt.Sprintf("%s: '%s'", l.Key, l.Value)
	}
	return fmt.Sprintf("%s: %s", l.Key, l.Value)
}

// Labels returns the ordered labels that enable and configure the component
// on a cluster set or cluster.
func (d *Descriptor) Labels() []Label {
	c := d.component
	labels := []Label{
		{Key: c, Value: "true", Quoted: true},
		{Key: c + "-subscription-name", Value: d.subscription},
		{Key: c + "-channel", Value: d.channel},
		{Key: c + "-source", Value: d.source},
		{Key: c + "-source-namespace", Value: d.sourceNamespace},
	}
	if d.version != nil {
		labels = append(labels, Label{Key: c + "-version", Value: *d.version, Quoted: true})
	}
	return labels
}

// Placeholder names understood by the chart templates.
const (
	PlaceholderComponentName   = "COMPONENT_NAME"
	PlaceholderComponentTitle  = "COMPONENT_TITLE"
	PlaceholderComponentCamel  = "COMPONENT_CAMEL"
	PlaceholderSubscription    = "SUBSCRIPTION_NAME"
	PlaceholderChannel         = "CHANNEL"
	PlaceholderVersion         = "VERSION"
	PlaceholderNamespace       = "NAMESPACE"
	PlaceholderSource          = "SOURCE"
	PlaceholderSourceNamespace = "SOURCE_NAMESPACE"
	PlaceholderNamespaceScoped = "NAMESPACE_SCOPED"
	PlaceholderChartVersion    = "CHART_VERSION"
	PlaceholderPolicyNamespace = "POLICY_NAMESPACE"
)

// Placeholders returns the substitution mapping for the chart templates.
// An unset version maps to the empty string.
func (d *Descriptor) Placeholders() map[string]string {
	return map[string]string{
		PlaceholderComponentName:   d.component,
		PlaceholderComponentTitle:  d.Title(),
		PlaceholderComponentCamel:  d.CamelKey(),
		PlaceholderSubscription:    d.subscription,
		PlaceholderChannel:         d.channel,
		PlaceholderVersion:         d.Version(),
		PlaceholderNamespace:       d.namespace,
		PlaceholderSource:          d.source,
		PlaceholderSourceNamespace: d.sourceNamespace,
		PlaceholderNamespaceScoped: strconv.FormatBool(d.namespaceScoped),
		PlaceholderChartVersion:    d.chartVersion,
		PlaceholderPolicyNamespace: defaults.PolicyNamespace,
	}
}
