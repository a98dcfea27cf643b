package dumpfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Confirmer asks yes/no questions on a terminal. Accepted affirmative and
// negative answers are explicit sets rather than a single magic string, so
// callers can extend or localize them. Matching is case-insensitive. Empty
// input selects Default; unrecognized input asks again until MaxAttempts is
// reached, after which the question counts as declined.
type Confirmer struct {
	// In is where answers are read from, usually os.Stdin.
	In io.Reader
	// Out is where prompts are written to, usually os.Stdout.
	Out io.Writer
	// Yes holds the accepted affirmative answers. The first entry appears in
	// the prompt.
	Yes []string
	// No holds the accepted negative answers. The first entry appears in the
	// prompt.
	No []string
	// Default is the answer selected by empty input.
	Default bool
	// MaxAttempts caps how often an unrecognized answer is re-asked.
	MaxAttempts int
}

// NewConfirmer returns a Confirmer on stdin/stdout accepting y/yes and n/no,
// declining by default.
func NewConfirmer() *Confirmer {
	return &Confirmer{
		In:          os.Stdin,
		Out:         os.Stdout,
		Yes:         []string{"y", "yes"},
		No:          []string{"n", "no"},
		Default:     false,
		MaxAttempts: 3,
	}
}

// Confirm presents the message followed by a [y/N] style hint, the default
// answer capitalized, and reads the reply. It returns an error only when the
// input source fails; end of input counts as declining.
func (c *Confirmer) Confirm(message string) (bool, error) {
	yes, no := c.Yes[0], c.No[0]
	if c.Default {
		yes = strings.ToUpper(yes)
	} else {
		no = strings.ToUpper(no)
	}

	reader := bufio.NewScanner(c.In)

	for attempt := 0; attempt < c.MaxAttempts; attempt++ {
		if _, err := fmt.Fprintf(c.Out, "%s [%s/%s]: ", message, yes, no); err != nil {
			return false, errors.Wrap(err, "can't write prompt")
		}

		if !reader.Scan() {
			if err := reader.Err(); err != nil {
				return false, errors.Wrap(err, "can't read answer")
			}

			return false, nil
		}

		answer := strings.ToLower(strings.TrimSpace(reader.Text()))

		switch {
		case answer == "":
			return c.Default, nil
		case containsAnswer(c.Yes, answer):
			return true, nil
		case containsAnswer(c.No, answer):
			return false, nil
		}
	}

	return false, nil
}

func containsAnswer(accepted []string, answer string) bool {
	for _, a := range accepted {
		if strings.ToLower(a) == answer {
			return true
		}
	}

	return false
}
