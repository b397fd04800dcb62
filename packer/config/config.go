/*
NAME
  config.go

DESCRIPTION
  config.go contains the configuration settings for a packer run.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

// Package config contains the configuration settings for the packer.
package config

import (
	"time"

	"github.com/ausocean/utils/logging"
)

// Defaults for the fields below, applied by Default.
const (
	DefaultNumFrames      = 32
	DefaultOutputPath     = "packer_out.xlsx"
	DefaultSolveTimeLimit = 30 * time.Second
	DefaultSeed           = 42
	DefaultWorkers        = 1
)

// Config provides parameters relevant to a single packer run. A new
// Config must be passed to packer.New.
type Config struct {
	// FrameSizeBytes is the width of a frame in bytes. Converted to
	// FrameSizeBits (= FrameSizeBytes * 8) during normalization.
	FrameSizeBytes int

	// NumFrames is the number of frames in the rotating schedule.
	// Defaults to DefaultNumFrames.
	NumFrames int

	// OutputPath is the file path for the exported workbook. If it
	// already exists at export time, "_0", "_1", ... is appended to the
	// stem until a free path is found (see packer/export).
	OutputPath string

	// Alignment is reserved for a future bit-alignment constraint beyond
	// the natural UNIT granularity. Packer.Pack rejects it unless it is 0
	// or a power of two, but it is not yet wired into the model.
	Alignment int

	// SolveTimeLimit bounds each of the two solver stages. Defaults to
	// DefaultSolveTimeLimit.
	SolveTimeLimit time.Duration

	// Seed is the solver's deterministic search seed. Defaults to
	// DefaultSeed. Fixed seeding keeps repeated runs byte-identical.
	Seed int64

	// Workers bounds internal solver parallelism. Must be 1 unless the
	// search is proven to produce identical assignments regardless of
	// worker count; see solve.Solver's determinism note.
	Workers int

	// Logger receives the soft warnings of the two-stage solve, from
	// packer.Pack and from solve.Solver. Must be set.
	Logger logging.Logger
}

// Default returns a Config with FrameSizeBytes, OutputPath and Logger set
// from the arguments and every other field at its documented default.
func Default(frameSizeBytes int, outputPath string, log logging.Logger) Config {
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}
	return Config{
		FrameSizeBytes: frameSizeBytes,
		NumFrames:      DefaultNumFrames,
		OutputPath:     outputPath,
		SolveTimeLimit: DefaultSolveTimeLimit,
		Seed:           DefaultSeed,
		Workers:        DefaultWorkers,
		Logger:         log,
	}
}
