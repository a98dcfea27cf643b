package splitter

import "github.com/pkg/errors"

// Limits configures when a statement is split and how large the resulting
// statements may grow. Both caps are independent: a chunk is closed as soon as
// adding the next tuple would violate either one. A cap of zero disables it;
// at least one cap must be positive.
type Limits struct {
	// MaxLineLength caps the character length of an emitted statement,
	// including its prefix and terminator.
	MaxLineLength int
	// MaxTuplesPerLine caps the number of value tuples per emitted statement.
	MaxTuplesPerLine int
}

// Validate checks constraints on the limits and returns an error if they are
// violated.
func (l Limits) Validate() error {
	if l.MaxLineLength < 0 {
		return errors.New("max line length must not be negative")
	}

	if l.MaxTuplesPerLine < 0 {
		return errors.New("max tuples per line must not be negative")
	}

	if l.MaxLineLength == 0 && l.MaxTuplesPerLine == 0 {
		return errors.New("at least one of max line length and max tuples per line must be positive")
	}

	return nil
}

// Chunk partitions the statement's tuples into contiguous groups so that each
// rebuilt statement stays within the limits. Packing is greedy: tuples
// accumulate into the current chunk until the next one would not fit. A single
// tuple longer than MaxLineLength still becomes a chunk of its own, as tuples
// are never split internally; in that one case the length cap is a soft
// target. Chunks partition the tuple sequence exactly, in order.
func (s *Statement) Chunk(limits Limits) [][]string {
	// Prefix and terminating ';' count against the length cap of every chunk.
	overhead := len(s.Prefix) + 1

	var chunks [][]string
	var current []string
	length := overhead

	for _, tuple := range s.Tuples {
		grows := len(tuple)
		if len(current) > 0 {
			grows++ // joining comma
		}

		if len(current) > 0 &&
			((limits.MaxLineLength > 0 && length+grows > limits.MaxLineLength) ||
				(limits.MaxTuplesPerLine > 0 && len(current) >= limits.MaxTuplesPerLine)) {
			chunks = append(chunks, current)
			current = nil
			length = overhead
			grows = len(tuple)
		}

		current = append(current, tuple)
		length += grows
	}

	if len(current) > 0 {
		chunks = append(chunks, current)
	}

	return chunks
}
