package pipeline

import "sync/atomic"

// RunStats tracks aggregate counters across a concurrent batch run.
type RunStats struct {
	Discovered atomic.Int64 // base files seen
	Processed  atomic.Int64 // groups written (or would be, in dry-run)
	Duplicates atomic.Int64 // groups skipped as content duplicates
	Skipped    atomic.Int64 // groups skipped for missing or unreadable companions
	Existing   atomic.Int64 // groups skipped because their output already has content
	Failed     atomic.Int64 // groups whose output could not be written
}

// Summary is a point-in-time copy of RunStats.
type Summary struct {
	Discovered int
	Processed  int
	Duplicates int
	Skipped    int
	Existing   int
	Failed     int
	Distinct   int // distinct companion contents seen; dedupe-files only
}

// Snapshot returns the current counter values.
func (s *RunStats) Snapshot() Summary {
	return Summary{
		Discovered: int(s.Discovered.Load()),
		Processed:  int(s.Processed.Load()),
		Duplicates: int(s.Duplicates.Load()),
		Skipped:    int(s.Skipped.Load()),
		Existing:   int(s.Existing.Load()),
		Failed:     int(s.Failed.Load()),
	}
}
