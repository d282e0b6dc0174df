// Package history derives insights from a patient's lab results and
// medication log: statuses against reference ranges, affected and monitored
// body systems, a merged health timeline, risk factors, and a one-screen
// health summary.
//
// Everything here is a pure transformation over already-loaded records; the
// only I/O is LoadLabs reading a labs CSV stream.
package history
