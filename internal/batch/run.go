// Package batch exports directories of workout description files to FIT.
//
// Each input file is a JSON document pairing a date with a workout
// description. The exporter compiles every description, encodes it, and
// writes the resulting .fit file next to its siblings in the output
// directory. A small SQLite state database remembers finished files so
// re-running over the same directory only touches new or changed inputs.
package batch

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/strideplan/internal/export"
	"github.com/claude/strideplan/internal/models"
	"github.com/claude/strideplan/internal/workout"
)

// Stats tracks export progress.
type Stats struct {
	FilesTotal    int
	FilesExported int
	FilesSkipped  int
	FilesErrored  int
	BytesWritten  int64
}

// Exporter walks a directory of workout description files and writes one
// FIT file per description.
type Exporter struct {
	enc    *export.Encoder
	state  *StateDB
	inDir  string
	outDir string
	prefs  models.Preferences
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Exporter. prefs supplies the heart rate profile for
// zone targets.
func New(enc *export.Encoder, state *StateDB, inDir, outDir string, prefs models.Preferences, dryRun bool, log *slog.Logger) *Exporter {
	return &Exporter{
		enc:    enc,
		state:  state,
		inDir:  inDir,
		outDir: outDir,
		prefs:  prefs.WithDefaults(),
		dryRun: dryRun,
		log:    log,
	}
}

// descriptionFile is the on-disk input format.
type descriptionFile struct {
	Date    string                    `json:"date"`
	Workout models.WorkoutDescription `json:"workout"`
}

// Run executes the export pipeline.
func (e *Exporter) Run() (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(e.inDir, "*.json"))
	if err != nil {
		return &e.stats, fmt.Errorf("scanning %s: %w", e.inDir, err)
	}

	if !e.dryRun {
		if err := os.MkdirAll(e.outDir, 0o755); err != nil {
			return &e.stats, fmt.Errorf("creating output dir %s: %w", e.outDir, err)
		}
	}

	for _, f := range files {
		e.stats.FilesTotal++
		if err := e.processFile(f); err != nil {
			e.log.Warn("export failed", "file", f, "error", err)
			e.stats.FilesErrored++
		}
	}

	return &e.stats, nil
}

func (e *Exporter) processFile(path string) error {
	relPath, _ := filepath.Rel(e.inDir, path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}

	if e.state != nil {
		exported, err := e.state.IsExported(relPath, info.Size(), hash)
		if err != nil {
			return fmt.Errorf("state check: %w", err)
		}
		if exported {
			e.stats.FilesSkipped++
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	var desc descriptionFile
	if err := json.Unmarshal(data, &desc); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	day := time.Now()
	if desc.Date != "" {
		day, err = time.Parse("2006-01-02", desc.Date)
		if err != nil {
			return fmt.Errorf("date %q: %w", desc.Date, err)
		}
	}

	structured, err := workout.Compile(desc.Workout, day)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	encoded, err := e.enc.Encode(structured, e.prefs)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	outPath := filepath.Join(e.outDir, export.Filename(desc.Workout.Type, day))
	if e.dryRun {
		e.log.Info("dry-run: would write", "file", outPath, "bytes", len(encoded))
		e.stats.FilesExported++
		return nil
	}

	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	e.stats.BytesWritten += int64(len(encoded))
	e.stats.FilesExported++
	e.log.Info("exported", "file", outPath, "bytes", len(encoded))

	if e.state != nil {
		if err := e.state.MarkExported(relPath, info.Size(), hash); err != nil {
			return fmt.Errorf("state mark: %w", err)
		}
	}
	return nil
}
