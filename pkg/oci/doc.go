// Package oci publishes generated policy charts to OCI-compliant registries.
//
// The chart directory is packed as a single reproducible gzip layer with the
// ORAS (OCI Registry As Storage) library and pushed with artifact type
// "application/vnd.autoshift.policy.chart". Pulling it with "oras pull"
// unpacks the chart into a directory named after the component.
//
// # Usage
//
//	ref, err := oci.ParseReference("oci://ghcr.io/acme/policies/foo")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.Push(ctx, oci.PushOptions{
//	    SourceDir: "policies/foo",
//	    Reference: ref.WithDefaultTag("0.1.0"),
//	})
//
// # Authentication
//
// Credentials are read from the standard Docker configuration
// (~/.docker/config.json) through the ORAS credentials package. PlainHTTP and
// InsecureTLS cover local development registries.
package oci
