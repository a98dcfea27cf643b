// mysqldump-reformat splits oversized extended-insert lines of a SQL dump
// into multiple shorter INSERT statements, so the dump survives tools with
// line or buffer length limits without losing rows.
package main

import (
	"fmt"
	"os"

	"github.com/Semiranis/mysqldump-reformat/config"
	"github.com/Semiranis/mysqldump-reformat/dumpfile"
	"github.com/Semiranis/mysqldump-reformat/logging"
	"github.com/pkg/errors"
)

func main() {
	os.Exit(run())
}

func run() int {
	var flags config.Flags
	if err := config.ParseFlags(&flags); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, err := config.Load(flags, config.EnvOptions{})
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer func() {
		_ = logger.Sync()
	}()

	processor := dumpfile.NewProcessor(dumpfile.Options{
		InputPath:  cfg.Input,
		OutputPath: cfg.Output,
		Limits:     cfg.Limits(),
		Force:      cfg.Force,
	}, logger, dumpfile.NewConfirmer())

	if err := processor.Run(); err != nil {
		if errors.Is(err, dumpfile.ErrAborted) {
			logger.Warn("aborted, nothing written")
			return 1
		}

		logger.Errorw("can't reformat dump", logging.Error(err))
		return 1
	}

	return 0
}
