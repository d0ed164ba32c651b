// Package policy defines the Descriptor of one RHACM operator-installation policy.
//
// A Descriptor carries the component name, the OLM subscription coordinates
// (subscription name, channel, optional version pin, catalog source) and the
// target namespace. It is validated once in New and is immutable afterwards:
//
//	d, err := policy.New("cert-manager", "openshift-cert-manager-operator",
//	    policy.WithChannel("stable-v1"),
//	    policy.WithNamespace("cert-manager-operator"),
//	)
//
// The Descriptor feeds the chart templates through Placeholders and the values
// documents through Labels.
package policy
