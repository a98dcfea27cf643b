package splitter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		prefix string
		tuples []string
	}{{
		name:   "plain",
		input:  "INSERT INTO t VALUES (1),(2);",
		prefix: "INSERT INTO t VALUES ",
		tuples: []string{"(1)", "(2)"},
	}, {
		name:   "column_list",
		input:  "INSERT INTO t (a,b) VALUES (1,'x'),(2,'y');",
		prefix: "INSERT INTO t (a,b) VALUES ",
		tuples: []string{"(1,'x')", "(2,'y')"},
	}, {
		name:   "backtick_table",
		input:  "INSERT INTO `t` VALUES (1,NULL,'x');",
		prefix: "INSERT INTO `t` VALUES ",
		tuples: []string{"(1,NULL,'x')"},
	}, {
		name:   "lowercase_ignore_no_space",
		input:  "insert ignore into t values(1),(2);",
		prefix: "insert ignore into t values",
		tuples: []string{"(1)", "(2)"},
	}, {
		name:   "escaped_quote",
		input:  `INSERT INTO t VALUES (1,'it\'s'),(2,'b');`,
		prefix: "INSERT INTO t VALUES ",
		tuples: []string{`(1,'it\'s')`, "(2,'b')"},
	}, {
		name:   "escaped_backslash_before_closing_quote",
		input:  `INSERT INTO t VALUES (1,'a\\'),(2,'b');`,
		prefix: "INSERT INTO t VALUES ",
		tuples: []string{`(1,'a\\')`, "(2,'b')"},
	}, {
		name:   "escaped_parenthesis_in_literal",
		input:  `INSERT INTO t VALUES (1, 'a \) b', 2),(3,'c');`,
		prefix: "INSERT INTO t VALUES ",
		tuples: []string{`(1, 'a \) b', 2)`, "(3,'c')"},
	}, {
		name:   "doubled_quote_escape",
		input:  "INSERT INTO t VALUES (1,'it''s'),(2,'b');",
		prefix: "INSERT INTO t VALUES ",
		tuples: []string{"(1,'it''s')", "(2,'b')"},
	}, {
		name:   "structural_chars_in_double_quoted_literal",
		input:  `INSERT INTO t VALUES (1,"x),(y");`,
		prefix: "INSERT INTO t VALUES ",
		tuples: []string{`(1,"x),(y")`},
	}, {
		name:   "nested_parentheses",
		input:  "INSERT INTO t VALUES (1,(2+3)),(4,5);",
		prefix: "INSERT INTO t VALUES ",
		tuples: []string{"(1,(2+3))", "(4,5)"},
	}, {
		name:   "whitespace_between_tuples",
		input:  "INSERT INTO t VALUES (1) , (2) ;",
		prefix: "INSERT INTO t VALUES ",
		tuples: []string{"(1)", "(2)"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statement, ok, err := Parse(tt.input)

			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.prefix, statement.Prefix)
			assert.Equal(t, tt.tuples, statement.Tuples)
		})
	}
}

func TestParseNoInsertShape(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"create_table", "CREATE TABLE t (id INT);"},
		{"comment", "-- MySQL dump 10.13"},
		{"conditional_comment", "/*!40101 SET NAMES utf8 */;"},
		{"empty", ""},
		{"select", "SELECT * FROM t;"},
		{"insert_select", "INSERT INTO t SELECT * FROM u;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statement, ok, err := Parse(tt.input)

			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, statement)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{{
		name:   "unterminated_literal",
		input:  "INSERT INTO t (a) VALUES (1,'unterminated);",
		reason: "unterminated string literal",
	}, {
		name:   "unbalanced_parentheses",
		input:  "INSERT INTO t VALUES ((1,2);",
		reason: "unbalanced parentheses",
	}, {
		name:   "missing_terminator",
		input:  "INSERT INTO t VALUES (1),(2)",
		reason: "missing statement terminator",
	}, {
		name:   "trailing_content",
		input:  "INSERT INTO t VALUES (1); DROP TABLE t;",
		reason: "unexpected content after statement terminator",
	}, {
		name:   "unmatched_closing",
		input:  "INSERT INTO t VALUES (1)),(2);",
		reason: "unmatched closing parenthesis",
	}, {
		name:   "tuple_without_comma",
		input:  "INSERT INTO t VALUES (1)(2);",
		reason: "value tuple without separating comma",
	}, {
		name:   "dangling_comma",
		input:  "INSERT INTO t VALUES (1),;",
		reason: "statement terminated after a separating comma",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := Parse(tt.input)

			require.True(t, ok)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Contains(t, parseErr.Reason, tt.reason)
			assert.Greater(t, parseErr.Offset, 0)
		})
	}
}

func TestChunk(t *testing.T) {
	statement := &Statement{
		Prefix: "INSERT INTO t VALUES ",
		Tuples: []string{"(1,'aa')", "(2,'bb')", "(3,'cc')", "(4,'dd')", "(5,'ee')"},
	}

	tests := []struct {
		name   string
		limits Limits
		want   [][]string
	}{{
		name:   "tuple_cap",
		limits: Limits{MaxTuplesPerLine: 2},
		want: [][]string{
			{"(1,'aa')", "(2,'bb')"},
			{"(3,'cc')", "(4,'dd')"},
			{"(5,'ee')"},
		},
	}, {
		name: "length_cap",
		// Prefix (21) + ';' + two tuples + comma = 39, three don't fit.
		limits: Limits{MaxLineLength: 45},
		want: [][]string{
			{"(1,'aa')", "(2,'bb')"},
			{"(3,'cc')", "(4,'dd')"},
			{"(5,'ee')"},
		},
	}, {
		name:   "length_cap_generous",
		limits: Limits{MaxLineLength: 1000},
		want: [][]string{
			{"(1,'aa')", "(2,'bb')", "(3,'cc')", "(4,'dd')", "(5,'ee')"},
		},
	}, {
		name:   "both_caps_tighter_wins",
		limits: Limits{MaxLineLength: 1000, MaxTuplesPerLine: 1},
		want: [][]string{
			{"(1,'aa')"}, {"(2,'bb')"}, {"(3,'cc')"}, {"(4,'dd')"}, {"(5,'ee')"},
		},
	}, {
		name: "oversized_tuple_own_chunk",
		// Cap below even a single rebuilt tuple: never split inside a
		// tuple, emit one per chunk instead.
		limits: Limits{MaxLineLength: 10},
		want: [][]string{
			{"(1,'aa')"}, {"(2,'bb')"}, {"(3,'cc')"}, {"(4,'dd')"}, {"(5,'ee')"},
		},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statement.Chunk(tt.limits))
		})
	}
}

func TestLimitsValidate(t *testing.T) {
	tests := []struct {
		name   string
		limits Limits
		error  string
	}{
		{"length_only", Limits{MaxLineLength: 80}, ""},
		{"tuples_only", Limits{MaxTuplesPerLine: 10}, ""},
		{"both", Limits{MaxLineLength: 80, MaxTuplesPerLine: 10}, ""},
		{"negative_length", Limits{MaxLineLength: -1}, "must not be negative"},
		{"negative_tuples", Limits{MaxTuplesPerLine: -5}, "must not be negative"},
		{"both_zero", Limits{}, "at least one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.limits.Validate()
			if tt.error == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tt.error)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		limits Limits
		want   []string
	}{{
		name:   "scenario_two_tuples_per_line",
		input:  "INSERT INTO t (a,b) VALUES (1,'x'),(2,'y'),(3,'z');",
		limits: Limits{MaxTuplesPerLine: 2},
		want: []string{
			"INSERT INTO t (a,b) VALUES (1,'x'),(2,'y');",
			"INSERT INTO t (a,b) VALUES (3,'z');",
		},
	}, {
		name:   "non_insert_passthrough",
		input:  "CREATE TABLE t (id INT);",
		limits: Limits{MaxTuplesPerLine: 1},
		want:   []string{"CREATE TABLE t (id INT);"},
	}, {
		name:   "under_length_threshold_passthrough",
		input:  "INSERT INTO t VALUES (1),(2),(3);",
		limits: Limits{MaxLineLength: 1000},
		want:   []string{"INSERT INTO t VALUES (1),(2),(3);"},
	}, {
		name:   "under_tuple_threshold_passthrough",
		input:  "INSERT INTO t VALUES (1),(2),(3);",
		limits: Limits{MaxTuplesPerLine: 3},
		want:   []string{"INSERT INTO t VALUES (1),(2),(3);"},
	}, {
		name:   "escaped_content_kept_intact",
		input:  `INSERT INTO t VALUES (1, 'a \) b', 2),(3,'c\'d'),(4,'e');`,
		limits: Limits{MaxTuplesPerLine: 2},
		want: []string{
			`INSERT INTO t VALUES (1, 'a \) b', 2),(3,'c\'d');`,
			"INSERT INTO t VALUES (4,'e');",
		},
	}, {
		name:   "oversized_tuple_soft_limit",
		input:  "INSERT INTO t VALUES (1,'0123456789012345678901234567890123456789'),(2,'b');",
		limits: Limits{MaxLineLength: 30},
		want: []string{
			"INSERT INTO t VALUES (1,'0123456789012345678901234567890123456789');",
			"INSERT INTO t VALUES (2,'b');",
		},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.input, tt.limits)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitMalformedShortLineWithLengthCapOnly(t *testing.T) {
	// With only a length cap configured, lines at or under the cap pass
	// through without being scanned at all.
	line := "INSERT INTO t (a) VALUES (1,'unterminated);"

	got, err := Split(line, Limits{MaxLineLength: 1000})
	require.NoError(t, err)
	assert.Equal(t, []string{line}, got)

	_, err = Split(line, Limits{MaxLineLength: 10})
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

// makeInsert builds an extended insert with n predictable tuples.
func makeInsert(n int) string {
	tuples := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tuples = append(tuples, fmt.Sprintf("(%d,'value %d')", i, i))
	}

	return "INSERT INTO t (id,v) VALUES " + strings.Join(tuples, ",") + ";"
}

func TestSplitPreservesTuplesAcrossThresholds(t *testing.T) {
	const tupleCount = 50

	input := makeInsert(tupleCount)

	original, ok, err := Parse(input)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, original.Tuples, tupleCount)

	for maxLen := 50; maxLen <= 400; maxLen += 25 {
		limits := Limits{MaxLineLength: maxLen}

		split, err := Split(input, limits)
		require.NoError(t, err, "max length %d", maxLen)

		var gathered []string
		for _, line := range split {
			statement, ok, err := Parse(line)
			require.NoError(t, err, "max length %d, line %q", maxLen, line)
			require.True(t, ok)

			if len(statement.Tuples) > 1 {
				assert.LessOrEqual(t, len(line), maxLen, "multi-tuple statement over the cap")
			}

			gathered = append(gathered, statement.Tuples...)
		}

		assert.Equal(t, original.Tuples, gathered, "max length %d", maxLen)
	}
}

func TestSplitIdempotent(t *testing.T) {
	input := makeInsert(50)

	limitsVariants := []Limits{
		{MaxLineLength: 100},
		{MaxTuplesPerLine: 7},
		{MaxLineLength: 120, MaxTuplesPerLine: 3},
		{MaxLineLength: 10}, // below a single tuple, soft-limit case
	}

	for _, limits := range limitsVariants {
		first, err := Split(input, limits)
		require.NoError(t, err)

		var second []string
		for _, line := range first {
			again, err := Split(line, limits)
			require.NoError(t, err)
			second = append(second, again...)
		}

		assert.Equal(t, first, second, "limits %+v", limits)
	}
}
