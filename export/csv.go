// Package export writes trajectories and heatmaps out of a tracking session
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/swdee/go-pitchtrack/tracker"
)

// trajectoryHeader is the header row of a trajectory CSV export
var trajectoryHeader = []string{"identity", "sample_index", "x", "y"}

// WriteCSV writes one row per trajectory sample
func WriteCSV(w io.Writer, rows []tracker.Row) error {

	cw := csv.NewWriter(w)

	if err := cw.Write(trajectoryHeader); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	for _, r := range rows {
		rec := []string{
			strconv.FormatInt(int64(r.Identity), 10),
			strconv.Itoa(r.SampleIndex),
			formatFloat(r.X),
			formatFloat(r.Y),
		}

		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("error writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the trajectory CSV export to a file
func SaveCSV(file string, rows []tracker.Row) error {

	f, err := os.Create(file)

	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// ReadCSV reads a trajectory CSV export back into rows
func ReadCSV(r io.Reader) ([]tracker.Row, error) {

	records, err := readRecords(r, trajectoryHeader)

	if err != nil {
		return nil, err
	}

	rows := make([]tracker.Row, 0, len(records))

	for i, rec := range records {

		id, err1 := strconv.ParseInt(rec[0], 10, 64)
		idx, err2 := strconv.Atoi(rec[1])
		x, err3 := strconv.ParseFloat(rec[2], 64)
		y, err4 := strconv.ParseFloat(rec[3], 64)

		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil, fmt.Errorf("invalid trajectory row %d: %q", i+2, rec)
		}

		rows = append(rows, tracker.Row{
			Identity:    tracker.Identity(id),
			SampleIndex: idx,
			X:           x,
			Y:           y,
		})
	}

	return rows, nil
}

// readRecords reads all CSV records after checking the header row
func readRecords(r io.Reader, header []string) ([][]string, error) {

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	cr.TrimLeadingSpace = true

	head, err := cr.Read()

	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	for i := range header {
		if head[i] != header[i] {
			return nil, fmt.Errorf("unexpected header %q, want %q", head, header)
		}
	}

	records, err := cr.ReadAll()

	if err != nil {
		return nil, fmt.Errorf("error reading records: %w", err)
	}

	return records, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
