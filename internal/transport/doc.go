// Package transport is the HTTP layer shared by the release catalog and the
// installer download step.
//
// A Client resolves hosts through a DNS cache, retries transient failures on
// an exponential schedule and keeps one circuit breaker per host, so a GitHub
// outage fails the step quickly instead of hammering the API.
package transport
