/*
NAME
  main.go

DESCRIPTION
  packerbench times and profiles the packer against the synthetic
  preset at one size (-n) or a list of sizes (-sweep): it reports
  mean/stddev solve time and appends a line to the benchmark tracker
  file for each size, writes a pprof CPU profile for the last size, and,
  when two or more sizes were run, renders a
  solve-time-vs-object-count plot.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

// Package main is the packer benchmark/profiling driver.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/ausocean/utils/logging"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/joeyjohn/formatpacker/packer"
	"github.com/joeyjohn/formatpacker/packer/benchexport"
	"github.com/joeyjohn/formatpacker/packer/config"
	"github.com/joeyjohn/formatpacker/packer/input/synthetic"
)

const (
	defaultFrameSize = 1000
	repeats          = 5
	trackerFile      = "benchmark_tracker.txt"
	profilePath      = "packerbench.pprof"
	plotPath         = "packerbench_solve_time.png"
)

func main() {
	n := flag.Int("n", 100, "Number of synthetic points to benchmark against.")
	sizes := flag.String("sweep", "", "Comma-separated list of sizes to sweep for the plot, e.g. 10,50,100,200. Overrides -n if set.")
	flag.Parse()

	log := logging.New(logging.Warning, io.MultiWriter(os.Stderr), true)

	sweep := []int{*n}
	if *sizes != "" {
		sweep = parseSweep(*sizes, log)
	}

	var xs, ys []float64
	for _, sz := range sweep {
		samples := timeRuns(sz, log)
		mean := stat.Mean(samples, nil)
		var stddev float64
		if len(samples) > 1 {
			stddev = stat.StdDev(samples, nil)
		}
		fmt.Printf("n=%-5d mean=%.6fs stddev=%.6fs (over %d runs)\n", sz, mean, stddev, len(samples))

		if err := benchexport.Append(trackerFile, benchexport.Entry{
			Test:    fmt.Sprintf("LargeInput[:%d]", sz),
			Elapsed: time.Duration(mean * float64(time.Second)),
		}, time.Now()); err != nil {
			log.Warning("could not append to benchmark tracker", "error", err)
		}

		xs = append(xs, float64(sz))
		ys = append(ys, mean)
	}

	if err := profileOnce(sweep[len(sweep)-1], log); err != nil {
		log.Warning("profiling failed", "error", err)
	}

	if len(xs) > 1 {
		if err := renderPlot(xs, ys); err != nil {
			log.Warning("could not render solve-time plot", "error", err)
		} else {
			fmt.Println("wrote", plotPath)
		}
	}
}

// timeRuns packs the synthetic preset at size n, repeats times, and
// returns each run's wall-clock solve time in seconds. A failed run is
// recorded as 0 and logged.
func timeRuns(n int, log logging.Logger) []float64 {
	samples := make([]float64, 0, repeats)
	for i := 0; i < repeats; i++ {
		items := synthetic.Build(n)
		cfg := config.Default(defaultFrameSize, fmt.Sprintf("packerbench_n%d.xlsx", n), log)
		pk := packer.New(cfg, items)

		start := time.Now()
		_, err := pk.Pack()
		elapsed := time.Since(start)
		if err != nil {
			log.Warning("pack failed during benchmark", "n", n, "run", i, "error", err)
			samples = append(samples, 0)
			continue
		}
		samples = append(samples, elapsed.Seconds())
	}
	return samples
}

// profileOnce runs one pack of size n under runtime/pprof's CPU
// profiler.
func profileOnce(n int, log logging.Logger) error {
	f, err := os.Create(profilePath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := pprof.StartCPUProfile(f); err != nil {
		return err
	}
	defer pprof.StopCPUProfile()

	cfg := config.Default(defaultFrameSize, fmt.Sprintf("packerbench_profile_n%d.xlsx", n), log)
	pk := packer.New(cfg, synthetic.Build(n))
	_, err = pk.Pack()
	return err
}

// renderPlot draws a solve-time-vs-object-count scatter.
func renderPlot(xs, ys []float64) error {
	p := plot.New()
	p.Title.Text = "Solve time vs. object count"
	p.X.Label.Text = "objects"
	p.Y.Label.Text = "seconds"

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}

	p.Add(line, points)

	return p.Save(6*vg.Inch, 4*vg.Inch, plotPath)
}

func parseSweep(s string, log logging.Logger) []int {
	var out []int
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				var v int
				if _, err := fmt.Sscanf(s[start:i], "%d", &v); err != nil {
					log.Warning("skipping unparseable sweep size", "token", s[start:i])
				} else {
					out = append(out, v)
				}
			}
			start = i + 1
		}
	}
	if len(out) == 0 {
		out = []int{100}
	}
	return out
}
