// Package workload computes per-member task load for a project and
// redistributes tasks away from overloaded members.
//
// Everything here is deterministic: members are processed in team order and
// each member's tasks in the order they were given, so the same input always
// produces the same moves. Persistence is delegated to a CommitFunc supplied
// by the caller.
package workload
