/*
NAME
  main.go

DESCRIPTION
  packer is the CLI orchestrator: a single positional argument selects
  an input preset (excel, manual, large); with no argument, all three
  run in turn. --watch re-packs whenever the input definitions file
  changes and reports readiness to a process supervisor via sd_notify.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

// Package main is the packer CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ausocean/utils/logging"
	"github.com/coreos/go-systemd/daemon"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/joeyjohn/formatpacker/packer"
	"github.com/joeyjohn/formatpacker/packer/config"
	"github.com/joeyjohn/formatpacker/packer/export"
	"github.com/joeyjohn/formatpacker/packer/input/excelinput"
	"github.com/joeyjohn/formatpacker/packer/input/manual"
	"github.com/joeyjohn/formatpacker/packer/input/synthetic"
)

// Logging related constants, named the way cmd/looper's are.
const (
	logPath      = "packer.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = true
)

// defaultFrameSize is the frame width in bytes shared by all three
// presets.
const defaultFrameSize = 1000

// largeN bounds the synthetic preset's size for the "large" argument.
const largeN = 200

func main() {
	excelPath := flag.String("excel", "input_fixed.xlsx", "Path to the Excel workbook for the excel preset.")
	watch := flag.Bool("watch", false, "Re-run the selected preset whenever the input definitions file changes.")
	flag.Parse()

	fileLog := &lumberjack.Logger{Filename: logPath, MaxSize: logMaxSize, MaxBackups: logMaxBackup, MaxAge: logMaxAge}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	preset := ""
	if flag.NArg() > 0 {
		preset = strings.ToLower(flag.Arg(0))
	}

	run := func() bool {
		return runPreset(preset, *excelPath, log)
	}

	if !*watch {
		if !run() {
			os.Exit(1)
		}
		return
	}

	watchMode(preset, *excelPath, log, run)
}

// runPreset executes the selected preset (or all three, if preset is
// empty), logging and returning false on any packing failure.
func runPreset(preset, excelPath string, log logging.Logger) bool {
	ok := true
	switch preset {
	case "excel":
		ok = runOne("excel", excelPath, log)
	case "manual":
		ok = runOne("manual", excelPath, log)
	case "large":
		ok = runOne("large", excelPath, log)
	case "":
		ok = runOne("excel", excelPath, log) && ok
		ok = runOne("manual", excelPath, log) && ok
		ok = runOne("large", excelPath, log) && ok
	default:
		log.Error("unknown preset argument", "preset", preset)
		return false
	}
	return ok
}

func runOne(preset, excelPath string, log logging.Logger) bool {
	items, outPath, err := loadPreset(preset, excelPath)
	if err != nil {
		log.Error("could not load preset", "preset", preset, "error", err)
		return false
	}

	cfg := config.Default(defaultFrameSize, outPath, log)
	pk := packer.New(cfg, items)

	res, err := pk.Pack()
	if err != nil {
		log.Error("pack failed", "preset", preset, "error", err)
		return false
	}

	written, err := export.Write(res, cfg.OutputPath)
	if err != nil {
		log.Error("export failed", "preset", preset, "error", err)
		return false
	}
	log.Info("pack complete", "preset", preset, "output", written, "total_util", res.TotalUtil, "max_end", res.MaxEnd)
	return true
}

func loadPreset(preset, excelPath string) ([]packer.Item, string, error) {
	switch preset {
	case "excel":
		items, err := excelinput.Build(excelPath)
		if err != nil {
			return nil, "", err
		}
		return items, "packer_excel_out.xlsx", nil
	case "manual":
		return manual.Build(), "packer_manual_out.xlsx", nil
	case "large":
		return synthetic.Build(largeN), "packer_large_out.xlsx", nil
	default:
		return nil, "", fmt.Errorf("unrecognized preset %q", preset)
	}
}

// watchMode re-runs run whenever excelPath changes on disk, notifying
// systemd readiness/watchdog once the first pack completes. This is
// additive: the batch single-shot path above is unchanged when --watch
// is not passed, and each re-pack is a fresh, non-incremental call to
// run, not an incremental re-solve.
func watchMode(preset, excelPath string, log logging.Logger, run func() bool) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal("could not start file watcher", "error", err)
	}
	defer watcher.Close()

	if err := watcher.Add(excelPath); err != nil {
		log.Warning("could not watch input file, --watch will only react to manual SIGHUP-free restarts", "path", excelPath, "error", err)
	}

	run()
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Warning("sd_notify(READY=1) failed", "error", err)
	} else if ok {
		log.Debug("sd_notify(READY=1) delivered")
	}

	for {
		select {
		case event, open := <-watcher.Events:
			if !open {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Info("input definitions changed, re-packing", "preset", preset, "event", event.Name)
			run()
			if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
				log.Warning("sd_notify(WATCHDOG=1) failed", "error", err)
			}
		case err, open := <-watcher.Errors:
			if !open {
				return
			}
			log.Error("file watcher error", "error", err)
		}
	}
}
