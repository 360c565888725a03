// Package pipeline runs the directory concatenator: it walks an input tree,
// resolves each image's item group, optionally drops groups whose companion
// content duplicates an earlier group, merges the rest and writes one caption
// file per group. It also builds the read-only scan report.
//
// Work is dispatched per base file through [walk.Walk]. The only state shared
// between units is the run counters in [RunStats] and the content index from
// package dedupe.
package pipeline
