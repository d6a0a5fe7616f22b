// Package registry implements the Connection Registry component.
//
// The Connection Registry:
//   - Maps server-assigned connection ids to live message channels
//   - Owns each channel exclusively; Remove closes and releases it
//   - Tracks a last-activity timestamp per connection for liveness eviction
//   - Never blocks or panics on sends to cold destinations
package registry
