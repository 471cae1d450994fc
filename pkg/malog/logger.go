// Package malog provides the logging and progress-reporting surface used
// while streaming folders, messages, and attachments out of a mail
// container. It mirrors the teacher's elog package: a thin wrapper around
// logrus with colorized terminal output and mpb-backed progress bars for
// long export operations.
package malog

import (
	"fmt"
	"sync"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"
)

// Logger is the logging surface used by pkg/mailbox and cmd/mailutil
// when a streaming traversal needs to downgrade a per-item error to a
// warning and continue (spec: generator-style traversals suppress
// per-message errors via logging and continue).
type Logger interface {
	Debugf(format string, x ...interface{})
	Errorf(format string, x ...interface{})
	Infof(format string, x ...interface{})
	Warnf(format string, x ...interface{})
	IsDebugEnabled() bool
}

// Progress reports incremental progress for an export operation.
type Progress interface {
	Increment(n int64)
	Finish(success bool)
}

// ProgressReporter creates Progress trackers.
type ProgressReporter interface {
	NewProgress(label string, total int64) Progress
}

// View combines logging and progress reporting, the surface exposed to
// pkg/mailbox export operations.
type View interface {
	Logger
	ProgressReporter
}

// CLI is a terminal-facing Logger/ProgressReporter implementation.
type CLI struct {
	DisableColors bool
	DisableTTY    bool
	IsDebug       bool

	lock               sync.Mutex
	isTrackingProgress bool
	bars               map[*mpb.Bar]bool
	progressContainer  *mpb.Progress
}

// Debugf logs at trace level when debugging is enabled.
func (log *CLI) Debugf(format string, x ...interface{}) {
	if log.IsDebug {
		logrus.Tracef(format, x...)
	}
}

// Errorf logs at error level.
func (log *CLI) Errorf(format string, x ...interface{}) {
	logrus.Errorf(format, x...)
}

// Infof logs at info level.
func (log *CLI) Infof(format string, x ...interface{}) {
	logrus.Infof(format, x...)
}

// Warnf logs at warn level.
func (log *CLI) Warnf(format string, x ...interface{}) {
	logrus.Warnf(format, x...)
}

// IsDebugEnabled reports whether debug-level logging is active.
func (log *CLI) IsDebugEnabled() bool {
	return logrus.IsLevelEnabled(logrus.DebugLevel)
}

// NewProgress creates a progress bar for a bounded export operation, or a
// spinner when total is zero (e.g. counting attachments before export).
func (log *CLI) NewProgress(label string, total int64) Progress {

	if log.DisableTTY {
		return &nilProgress{}
	}

	log.lock.Lock()
	defer log.lock.Unlock()

	if !log.isTrackingProgress {
		log.isTrackingProgress = true
		log.progressContainer = mpb.New(mpb.WithWidth(80))
		log.bars = make(map[*mpb.Bar]bool)
	}

	var p *mpb.Bar
	if total == 0 {
		p = log.progressContainer.AddSpinner(0, mpb.SpinnerOnLeft,
			mpb.PrependDecorators(
				decor.Name(label, decor.WC{W: len(label) + 1, C: decor.DidentRight}),
			),
		)
	} else {
		p = log.progressContainer.AddBar(total,
			mpb.PrependDecorators(
				decor.Name(label, decor.WC{W: len(label) + 1, C: decor.DidentRight}),
				decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 4}), "done"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	log.bars[p] = true

	return &pb{log: log, p: p, total: total}

}

type nilProgress struct{}

func (np *nilProgress) Increment(n int64)   {}
func (np *nilProgress) Finish(success bool) {}

type pb struct {
	log    *CLI
	p      *mpb.Bar
	closed bool
	total  int64
	bar    int64
}

// Increment advances the progress bar by n.
func (pb *pb) Increment(n int64) {
	pb.bar += n
	pb.p.IncrInt64(n)
}

// Finish closes the progress bar, aborting its display if it didn't
// reach its total or the caller signals failure.
func (pb *pb) Finish(success bool) {
	if pb.closed {
		return
	}
	pb.closed = true
	if pb.bar != pb.total || pb.total == 0 || !success {
		pb.p.Abort(false)
	}

	pb.log.lock.Lock()
	defer pb.log.lock.Unlock()
	delete(pb.log.bars, pb.p)

	if len(pb.log.bars) == 0 {
		pb.log.bars = nil
		pb.log.isTrackingProgress = false
		pb.log.progressContainer.Wait()
		pb.log.progressContainer = nil
	}
}

// Format implements logrus.Formatter, colorizing log lines the way the
// teacher's CLI logger does for terminal output.
func (log *CLI) Format(entry *logrus.Entry) ([]byte, error) {

	faint := color.New(color.Faint).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	blue := color.New(color.FgBlue).SprintFunc()

	x := entry.Message
	if !log.DisableColors {
		switch entry.Level {
		case logrus.TraceLevel:
			x = fmt.Sprintf("%s\n", faint(x))
		case logrus.DebugLevel:
			x = fmt.Sprintf("%s\n", blue(x))
		case logrus.InfoLevel:
			x = fmt.Sprintf("%s\n", x)
		case logrus.WarnLevel:
			x = fmt.Sprintf("%s\n", yellow(x))
		case logrus.ErrorLevel:
			x = fmt.Sprintf("%s\n", red(x))
		default:
		}
	} else {
		x = fmt.Sprintf("%s\n", x)
	}

	return []byte(x), nil

}

// Discard is a Logger/ProgressReporter that drops everything, used by
// library callers that don't want mailbox's streaming iteration to write
// to stdout (e.g. in tests).
var Discard View = &discard{}

type discard struct{}

func (d *discard) Debugf(format string, x ...interface{}) {}
func (d *discard) Errorf(format string, x ...interface{}) {}
func (d *discard) Infof(format string, x ...interface{})  {}
func (d *discard) Warnf(format string, x ...interface{})  {}
func (d *discard) IsDebugEnabled() bool                    { return false }
func (d *discard) NewProgress(label string, total int64) Progress {
	return &nilProgress{}
}
