// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Open connection and room gauges
//   - Inbound message counts by type
//   - Relay fan-out and dropped-delivery counts
//   - Parse errors and liveness evictions
package metrics
