// Package ranges extracts AWK-style range patterns from a sequential stream.
//
// A range starts at an item matching a first predicate and ends, inclusively,
// at the next item matching a last predicate. Scanning resumes after each
// range closes, so one pass can yield many ranges. A range still open when
// the input ends is emitted truncated.
//
// One state machine (Machine, Tracker) classifies every item exactly once.
// Four consumption models sit on top of it:
//
//   - Filter pushes each matched item to a callback, synchronously.
//   - EagerSink materializes ranges as a slice of slices.
//   - ChannelSink hands each range over as its own Queue, nested in an outer
//     Queue of Queues, so producer and consumer may run on different goroutines.
//   - Grouper pulls lazily: a single-pass sequence of single-pass Groups over
//     one shared cursor. Advancing the outer sequence before a Group was
//     drained fast-forwards the cursor to that Group's end first.
//
// Extract and Select expose the same engine as stream Transformers.
//
// Example:
//
//	g := ranges.NewGrouper(predicate.Equal(2), predicate.Equal(3), slices.Values(items))
//	defer g.Close()
//	for group := range g.All() {
//	    fmt.Println(group.Slice())
//	}
package ranges
