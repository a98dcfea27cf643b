// Package dumpfile applies the statement splitter to whole SQL dump files.
//
// The driver reads the entire source file into memory, rewrites each oversized
// extended-insert line into multiple shorter statements and writes the result
// to the destination path. Whole-file buffering is a known limitation: memory
// use grows with the dump size. Writing over the input file is supported but
// risky, as a failure mid-write can leave a truncated dump behind; the
// overwrite confirmation exists to make that an explicit decision.
package dumpfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/Semiranis/mysqldump-reformat/splitter"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrAborted is returned by Processor.Run when the user declines the
// overwrite confirmation. Nothing has been written at that point.
var ErrAborted = errors.New("aborted, nothing written")

// progressInterval is the number of input lines between progress log entries.
const progressInterval = 10000

// Options configure a single reformatting run.
type Options struct {
	// InputPath is the dump file to read.
	InputPath string
	// OutputPath is the file to write the reformatted dump to. It may equal
	// InputPath, which overwrites the dump in place.
	OutputPath string
	// Limits decide which INSERT statements are split and how.
	Limits splitter.Limits
	// Force skips the overwrite confirmation for existing output files.
	Force bool
}

// Processor performs the one-shot file transformation. The whole run is a
// single synchronous pass, no state is shared.
type Processor struct {
	opts    Options
	logger  *zap.SugaredLogger
	confirm *Confirmer
}

// NewProcessor returns a Processor using the given confirmer to gate
// overwrites of existing output files.
func NewProcessor(opts Options, logger *zap.SugaredLogger, confirm *Confirmer) *Processor {
	return &Processor{opts: opts, logger: logger, confirm: confirm}
}

// Run reads the input dump, splits every oversized extended-insert line and
// writes the full output. Empty lines and comment lines pass through
// untouched, as does any line the splitter leaves alone. All errors are fatal
// to the run: a malformed statement aborts before anything is written, with
// the offending line number attached.
func (p *Processor) Run() error {
	if err := p.confirmOverwrite(); err != nil {
		return err
	}

	raw, err := os.ReadFile(p.opts.InputPath)
	if err != nil {
		return errors.Wrap(err, "can't read dump file "+p.opts.InputPath)
	}

	p.logger.Infow("processing dump file", "input", p.opts.InputPath)

	lines, eol, terminated := splitLines(string(raw))

	output := make([]string, 0, len(lines))
	splitStatements := 0

	for i, line := range lines {
		number := i + 1

		if number%progressInterval == 0 {
			p.logger.Debugf("processing line %d/%d", number, len(lines))
		}

		// Empty and comment lines can't be statements, skip them without
		// even matching.
		if line == "" || strings.HasPrefix(line, "--") {
			output = append(output, line)
			continue
		}

		parts, err := splitter.Split(line, p.opts.Limits)
		if err != nil {
			var parseErr *splitter.ParseError
			if errors.As(err, &parseErr) {
				parseErr.Line = number
			}

			return errors.Wrap(err, "can't split dump file "+p.opts.InputPath)
		}

		if len(parts) > 1 {
			splitStatements++
			p.logger.Debugw("split statement", "line", number, "statements", len(parts))

			// A single tuple longer than the cap ends up alone on a
			// statement that still exceeds the cap. The length limit is a
			// soft target in that case, tell the operator.
			if limit := p.opts.Limits.MaxLineLength; limit > 0 {
				for _, part := range parts {
					if len(part) > limit {
						p.logger.Warnw("statement exceeds the length cap, it holds a single tuple longer than the cap",
							"line", number, "length", len(part), "max_line_length", limit)
					}
				}
			}
		}

		output = append(output, parts...)
	}

	content := strings.Join(output, eol)
	if terminated {
		content += eol
	}

	if err := os.WriteFile(p.opts.OutputPath, []byte(content), 0o644); err != nil {
		return errors.Wrap(err, "can't write dump file "+p.opts.OutputPath)
	}

	p.logger.Infow("dump file reformatted",
		"output", p.opts.OutputPath,
		"input_lines", len(lines),
		"output_lines", len(output),
		"split_statements", splitStatements)

	return nil
}

// confirmOverwrite asks before clobbering an existing output file, unless
// forced. Declining or exhausting the prompt attempts yields ErrAborted.
func (p *Processor) confirmOverwrite() error {
	if p.opts.Force {
		return nil
	}

	if _, err := os.Stat(p.opts.OutputPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return errors.Wrap(err, "can't stat output file "+p.opts.OutputPath)
	}

	ok, err := p.confirm.Confirm(fmt.Sprintf("File exists! Do you want to overwrite file %s?", p.opts.OutputPath))
	if err != nil {
		return errors.Wrap(err, "can't read confirmation")
	}

	if !ok {
		return ErrAborted
	}

	return nil
}

// splitLines splits the file content into lines without their terminators,
// reporting the terminator convention in use (taken from the first line
// ending) and whether the content ended with a terminator, so the output can
// reproduce both.
func splitLines(content string) (lines []string, eol string, terminated bool) {
	eol = "\n"
	if i := strings.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		eol = "\r\n"
	}

	terminated = strings.HasSuffix(content, "\n")
	content = strings.TrimSuffix(content, "\n")
	content = strings.TrimSuffix(content, "\r")

	if content == "" && !terminated {
		return []string{}, eol, false
	}

	lines = strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines, eol, terminated
}
