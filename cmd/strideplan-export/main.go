package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/strideplan/internal/batch"
	"github.com/claude/strideplan/internal/export"
	"github.com/claude/strideplan/internal/models"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	inDir := flag.String("in", "", "directory of workout description JSON files")
	outDir := flag.String("out", "fit", "directory to write .fit files into")
	maxHR := flag.Int("max-hr", 0, "maximum heart rate for zone targets (default 190)")
	restingHR := flag.Int("resting-hr", 0, "resting heart rate for zone targets (default 50)")
	dryRun := flag.Bool("dry-run", false, "compile and encode but don't write files")
	stateDir := flag.String("state-dir", "", "state database directory (default ~/.strideplan-export)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("strideplan-export", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *inDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: strideplan-export -in <dir> [-out <dir>] [-dry-run] [-max-hr N] [-resting-hr N]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*inDir)
	if err != nil || !info.IsDir() {
		log.Error("input directory not found", "path", *inDir)
		os.Exit(1)
	}

	// Open state database
	dir := *stateDir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		dir = filepath.Join(homeDir, ".strideplan-export")
	}
	state, err := batch.OpenStateDB(dir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if *dryRun {
		log.Info("DRY RUN mode: files will be compiled and encoded but not written")
	}

	prefs := models.Preferences{MaxHR: *maxHR, RestingHR: *restingHR}
	exporter := batch.New(export.New(), state, *inDir, *outDir, prefs, *dryRun, log)
	stats, err := exporter.Run()
	if err != nil {
		log.Error("export failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	log.Info("export complete")
}

func printStats(stats *batch.Stats) {
	fmt.Println()
	fmt.Println("=== Export Summary ===")
	fmt.Printf("  Files total:     %d\n", stats.FilesTotal)
	fmt.Printf("  Files exported:  %d\n", stats.FilesExported)
	fmt.Printf("  Files skipped:   %d (already exported)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:   %d\n", stats.FilesErrored)
	fmt.Printf("  Bytes written:   %d\n", stats.BytesWritten)
	fmt.Println()
}
