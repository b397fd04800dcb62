/*
NAME
  testlog_test.go

DESCRIPTION
  testlog_test.go provides a suppressed logger shared by this package's
  tests, routing log output to a discard sink.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

package packer

import (
	"io"

	"github.com/ausocean/utils/logging"
)

func testLogger() logging.Logger {
	return logging.New(logging.Error, io.Discard, true)
}
