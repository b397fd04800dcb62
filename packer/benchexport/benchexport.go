/*
NAME
  benchexport.go

DESCRIPTION
  benchexport.go appends one line per benchmark run to a tracker file:
  date, version, test name, elapsed time, pipe-delimited and
  fixed-width.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

// Package benchexport appends benchmark results to a plain-text tracker
// file for cmd/packerbench.
package benchexport

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Version is stamped into every tracker line; bump it when the
// benchmark's methodology changes enough to make historical rows
// incomparable.
const Version = "0.1.0"

const separator = "─────────┼─────────┼──────────────────────┼──────────────────────\n"

// Entry is one benchmark sample to record.
type Entry struct {
	Test    string        // e.g. "LargeInput[:100]".
	Elapsed time.Duration // zero means the run failed (recorded as "-").
}

// Append writes entry to path, creating it if necessary. now is the
// timestamp to stamp the row with, since this package must not call
// time.Now() itself in a way that would make tests non-deterministic;
// callers pass the observed time explicitly.
func Append(path string, entry Entry, now time.Time) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "benchexport: opening %q", path)
	}
	defer f.Close()

	elapsed := "-"
	if entry.Elapsed > 0 {
		elapsed = fmt.Sprintf("%3.9f", entry.Elapsed.Seconds())
	}
	line := fmt.Sprintf("%s | %-7s | %-20s | %s\n", now.Format("01/02/06"), Version, entry.Test, elapsed)

	if _, err := f.WriteString(line); err != nil {
		return errors.Wrapf(err, "benchexport: writing to %q", path)
	}
	if _, err := f.WriteString(separator); err != nil {
		return errors.Wrapf(err, "benchexport: writing separator to %q", path)
	}
	return nil
}
