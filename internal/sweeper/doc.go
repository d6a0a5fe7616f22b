// Package sweeper implements the liveness sweep.
//
// The sweeper:
//   - Ticks on a fixed period independent of message traffic
//   - Evicts connections silent for longer than the idle timeout
//   - Delegates eviction to the router's shared disconnect path, so a timed-out
//     connection is torn down exactly like one that hung up
package sweeper
