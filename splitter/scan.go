package splitter

import (
	"fmt"
	"strings"
)

// ParseError reports a value list that cannot be scanned, e.g. because of an
// unterminated string literal or unbalanced parentheses. Line is the 1-based
// line number in the source file, filled in by the caller that knows it;
// Offset is the byte position of the problem within the line. The scanner
// never repairs malformed input, it fails so that no corrupt output is
// written.
type ParseError struct {
	Line   int
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, offset %d: %s", e.Line, e.Offset, e.Reason)
	}

	return fmt.Sprintf("offset %d: %s", e.Offset, e.Reason)
}

// scanTuples splits the value list of an extended insert into its tuples.
// list must start at the first tuple's '(' and end with the statement's ';'.
// base is the byte offset of list within the surrounding line and only
// positions errors.
//
// The scanner walks bytes while tracking three things: whether it is inside a
// single- or double-quoted string literal, whether the current character is
// escaped by a backslash, and the parenthesis nesting depth outside literals.
// A '(' at depth 0 starts a tuple, the ')' returning to depth 0 ends it.
// Between tuples only the separating comma and whitespace are allowed.
// Doubled quotes inside a literal ('' or "") are the SQL quote escape and do
// not close the literal.
func scanTuples(list string, base int) ([]string, error) {
	var tuples []string

	var quote byte
	depth := 0
	start := 0
	expectTuple := true

	for i := 0; i < len(list); i++ {
		c := list[i]

		if quote != 0 {
			switch c {
			case '\\':
				// Escaped character, structural or not. Skip it.
				i++
			case quote:
				if i+1 < len(list) && list[i+1] == quote {
					i++
				} else {
					quote = 0
				}
			}

			continue
		}

		switch c {
		case '\'', '"':
			if depth == 0 {
				return nil, &ParseError{Offset: base + i, Reason: "string literal outside of a value tuple"}
			}

			quote = c
		case '(':
			if depth == 0 {
				if !expectTuple {
					return nil, &ParseError{Offset: base + i, Reason: "value tuple without separating comma"}
				}

				start = i
			}

			depth++
		case ')':
			if depth == 0 {
				return nil, &ParseError{Offset: base + i, Reason: "unmatched closing parenthesis"}
			}

			depth--
			if depth == 0 {
				tuples = append(tuples, list[start:i+1])
				expectTuple = false
			}
		case ',':
			if depth == 0 {
				if expectTuple {
					return nil, &ParseError{Offset: base + i, Reason: "comma without preceding value tuple"}
				}

				expectTuple = true
			}
		case ';':
			if depth == 0 {
				if expectTuple {
					return nil, &ParseError{Offset: base + i, Reason: "statement terminated after a separating comma"}
				}

				if rest := strings.TrimSpace(list[i+1:]); rest != "" {
					return nil, &ParseError{Offset: base + i + 1, Reason: "unexpected content after statement terminator"}
				}

				return tuples, nil
			}
		default:
			if depth == 0 && c != ' ' && c != '\t' {
				return nil, &ParseError{Offset: base + i, Reason: fmt.Sprintf("unexpected character %q between value tuples", c)}
			}
		}
	}

	switch {
	case quote != 0:
		return nil, &ParseError{Offset: base + len(list), Reason: "unterminated string literal"}
	case depth > 0:
		return nil, &ParseError{Offset: base + len(list), Reason: "unbalanced parentheses"}
	default:
		return nil, &ParseError{Offset: base + len(list), Reason: "missing statement terminator"}
	}
}
