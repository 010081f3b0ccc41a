// Package tasks runs independent units of work with a concurrency bound.
// A failing task never cancels its siblings; failures are collected and
// returned together once every task has settled.
package tasks
