// Package exec carries the execution resources of a mapping run: a thread
// budget, a seeded random generator and a logger.
//
// # Fork-Join
//
// The recursive driver splits work in two at every level. [Context.Fork]
// runs both halves, concurrently when the context holds at least two
// threads and one after the other otherwise. The thread budget is split
// between the halves, so the total number of running goroutines never
// exceeds the budget given to [New].
//
// Both halves always run to completion and Fork returns the first error
// reported by either of them. Callers that need early termination check
// their own context.Context.
//
// # Randomness
//
// Every child context receives its own PCG stream, seeded from the parent
// stream before any child starts. The numbers drawn in a subtree therefore
// depend only on the seed and the shape of the recursion, never on goroutine
// scheduling: a run with one thread and a run with many threads draw the
// same values in the same frames.
//
// # Barriers
//
// [Barrier] is a reusable cyclic barrier for phase-structured worker pools.
// [Barrier.Wait] tells exactly one caller per phase that it arrived last,
// which lets a pool elect a leader for serial sections without extra
// synchronization.
package exec
