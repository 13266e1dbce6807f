package export

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/swdee/go-pitchtrack/heatmap"
	"github.com/swdee/go-pitchtrack/tracker"
)

// Targets lists the files written when a tracking run finishes.  Empty
// paths are skipped.
type Targets struct {
	CSV    string
	SQLite string
	PNG    string
	HTML   string
	// HTMLStep is the grid cell stride of the interactive heatmap
	HTMLStep int
	// Threshold is the minimum normalised density shown in the HTML page
	Threshold float64
}

// Summary reports what Write produced
type Summary struct {
	Files []string
	// RunID is the SQLite run the samples were saved under, uuid.Nil when
	// no database was written
	RunID uuid.UUID
}

// Write exports the trajectory rows and the heatmap field.  Source names the
// video in the database run, field may be nil in which case no heatmap
// files are written.  Every target is attempted, the returned error joins
// all failures.
func (t Targets) Write(ctx context.Context, source string, rows []tracker.Row,
	field *heatmap.Field, title string) (Summary, error) {

	var sum Summary
	var errs []error

	if t.CSV != "" {
		if err := SaveCSV(t.CSV, rows); err != nil {
			errs = append(errs, fmt.Errorf("csv %s: %w", t.CSV, err))
		} else {
			sum.Files = append(sum.Files, t.CSV)
		}
	}

	if t.SQLite != "" {
		id, err := saveSQLite(ctx, t.SQLite, source, rows)

		if err != nil {
			errs = append(errs, fmt.Errorf("sqlite %s: %w", t.SQLite, err))
		} else {
			sum.Files = append(sum.Files, t.SQLite)
			sum.RunID = id
		}
	}

	if field == nil {
		return sum, errors.Join(errs...)
	}

	if t.PNG != "" {
		if err := SaveHeatmapPNG(t.PNG, field, title); err != nil {
			errs = append(errs, fmt.Errorf("png %s: %w", t.PNG, err))
		} else {
			sum.Files = append(sum.Files, t.PNG)
		}
	}

	if t.HTML != "" {
		if err := t.saveHTML(field, title); err != nil {
			errs = append(errs, fmt.Errorf("html %s: %w", t.HTML, err))
		} else {
			sum.Files = append(sum.Files, t.HTML)
		}
	}

	return sum, errors.Join(errs...)
}

func saveSQLite(ctx context.Context, path, source string,
	rows []tracker.Row) (uuid.UUID, error) {

	store, err := OpenSQLite(path)

	if err != nil {
		return uuid.Nil, err
	}

	id, err := store.SaveRun(ctx, source, rows)

	if cerr := store.Close(); err == nil {
		err = cerr
	}

	return id, err
}

func (t Targets) saveHTML(field *heatmap.Field, title string) error {

	f, err := os.Create(t.HTML)

	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	step := max(t.HTMLStep, 1)

	if err := WriteHeatmapHTML(f, field, title, step, t.Threshold); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
