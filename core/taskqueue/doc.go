// Package taskqueue provides a bounded concurrent task queue with
// cancellation.
//
// It keeps slow background work (archive uploads) off the request
// path: tasks are submitted as functions, run by at most a fixed
// number of goroutines, and all share a context that is cancelled when
// the queue is closed.
//
// Close drains the queue: it cancels the shared context, waits for
// running tasks, and reports the first task error.
package taskqueue
