// Package splitter rewrites oversized extended-insert statements from SQL dumps
// into several shorter INSERT statements carrying the same value tuples.
//
// mysqldump's extended-insert mode bundles thousands of rows into a single
// statement on a single line. Lines like that can exceed the buffer limits of
// import clients and editors, which then truncate silently instead of failing.
// This package detects such statements, scans their value list into individual
// tuples and repacks the tuples into statements that stay under configurable
// length and tuple-count caps.
//
// To avoid an overly complex implementation, this package has some limitations
// on its input:
//   - Only single-line INSERT ... VALUES statements are considered. Statements
//     spanning multiple lines are passed through untouched.
//   - Table names containing whitespace are not recognized.
//   - No other statement types are split; this is not a SQL parser.
package splitter

import (
	"regexp"
	"strings"
)

// insertRe matches the fixed prefix of an extended insert up to and including
// the VALUES keyword, leaving the scanner positioned at the first tuple's '('.
// The optional parenthesized group is an explicit column list.
var insertRe = regexp.MustCompile(`(?i)^(insert\s+(?:ignore\s+)?into\s+[^\s(]+\s*(?:\([^)]*\)\s*)?values\s*)\(`)

// Statement is a decomposed extended insert: the fixed prefix ending right
// before the first tuple's opening parenthesis, and the ordered value tuples,
// each carrying its own enclosing parentheses. Tuple order reflects row order
// in the dump and must not change.
type Statement struct {
	Prefix string
	Tuples []string
}

// Parse decomposes a dump line into a Statement. The second return value
// reports whether the line has the INSERT ... VALUES shape at all; lines
// without it are not an error, they are simply none of this package's
// business. A line that has the shape but whose value list cannot be scanned
// yields a *ParseError.
func Parse(line string) (*Statement, bool, error) {
	match := insertRe.FindStringSubmatch(line)
	if match == nil {
		return nil, false, nil
	}

	prefix := match[1]

	tuples, err := scanTuples(line[len(prefix):], len(prefix))
	if err != nil {
		return nil, true, err
	}

	return &Statement{Prefix: prefix, Tuples: tuples}, true, nil
}

// Rebuild serializes one chunk of tuples back into a standalone statement.
// Tuple text is taken verbatim, so the data content is byte-for-byte the same
// as the corresponding slice of the original statement.
func (s *Statement) Rebuild(chunk []string) string {
	return s.Prefix + strings.Join(chunk, ",") + ";"
}

// Split applies the whole pipeline to one dump line. Lines without the
// INSERT ... VALUES shape, and statements already within the configured
// limits, come back as a single element holding the unmodified input, which
// makes Split idempotent on its own output. Oversized statements come back as
// one rebuilt statement per chunk, preserving tuple order.
func Split(line string, limits Limits) ([]string, error) {
	if !insertRe.MatchString(line) {
		return []string{line}, nil
	}

	// With no tuple-count cap the line length alone decides eligibility,
	// sparing short statements the value-list scan.
	if limits.MaxTuplesPerLine <= 0 && limits.MaxLineLength > 0 && len(line) <= limits.MaxLineLength {
		return []string{line}, nil
	}

	statement, _, err := Parse(line)
	if err != nil {
		return nil, err
	}

	chunks := statement.Chunk(limits)
	if len(chunks) <= 1 {
		return []string{line}, nil
	}

	split := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		split = append(split, statement.Rebuild(chunk))
	}

	return split, nil
}
