// Package pactwriter serializes the effective pact to disk at instance
// teardown, merging with any existing pact file in the target directory
// per the interaction-identity rule in [Write]'s doc comment.
package pactwriter
