package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/swdee/go-pitchtrack/geometry"
	"github.com/swdee/go-pitchtrack/heatmap"
	"github.com/swdee/go-pitchtrack/tracker"
)

var testRows = []tracker.Row{
	{Identity: 1, SampleIndex: 0, X: 100, Y: 100},
	{Identity: 1, SampleIndex: 1, X: 105.5, Y: 102},
	{Identity: 2, SampleIndex: 0, X: 500, Y: 500.25},
}

func TestWriteCSV(t *testing.T) {

	var buf bytes.Buffer

	if err := WriteCSV(&buf, testRows); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	want := "identity,sample_index,x,y\n" +
		"1,0,100,100\n" +
		"1,1,105.5,102\n" +
		"2,0,500,500.25\n"

	if got := buf.String(); got != want {
		t.Errorf("csv mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}

	rows, err := ReadCSV(&buf)

	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	if diff := cmp.Diff(testRows, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVEmpty(t *testing.T) {

	var buf bytes.Buffer

	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	if got := buf.String(); got != "identity,sample_index,x,y\n" {
		t.Errorf("expected header only, got %q", got)
	}
}

func TestReadCSVBadHeader(t *testing.T) {

	if _, err := ReadCSV(strings.NewReader("a,b,c,d\n1,2,3,4\n")); err == nil {
		t.Errorf("expected header error")
	}
}

func TestDetectionRoundTrip(t *testing.T) {

	var buf bytes.Buffer
	dw := NewDetectionWriter(&buf)

	f0 := []tracker.Detection{
		tracker.NewDetection(geometry.NewBox(90, 80, 110, 120), 0, "person", 0.9, 0),
		tracker.NewDetection(geometry.NewBox(10, 20, 30, 60), 0, "person", 0.5, 0),
	}

	f2 := []tracker.Detection{
		tracker.NewDetection(geometry.NewBox(95, 82, 115, 122), 0, "person", 0.75, 2),
	}

	for _, f := range []struct {
		idx  int
		dets []tracker.Detection
	}{{0, f0}, {2, f2}} {
		if err := dw.Write(f.idx, f.dets); err != nil {
			t.Fatalf("write detections: %v", err)
		}
	}

	if err := dw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	frames, err := ReadDetections(&buf)

	if err != nil {
		t.Fatalf("read detections: %v", err)
	}

	if len(frames) != 2 || frames[0].Index != 0 || frames[1].Index != 2 {
		t.Fatalf("unexpected frames %+v", frames)
	}

	if diff := cmp.Diff(f0, frames[0].Detections); diff != "" {
		t.Errorf("frame 0 mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(f2, frames[1].Detections); diff != "" {
		t.Errorf("frame 2 mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStore(t *testing.T) {

	ctx := context.Background()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "tracks.db"))

	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	defer store.Close()

	id, err := store.SaveRun(ctx, "match.mp4", testRows)

	if err != nil {
		t.Fatalf("save run: %v", err)
	}

	rows, err := store.LoadRun(ctx, id)

	if err != nil {
		t.Fatalf("load run: %v", err)
	}

	if diff := cmp.Diff(testRows, rows); diff != "" {
		t.Errorf("loaded rows mismatch (-want +got):\n%s", diff)
	}

	runs, err := store.Runs(ctx)

	if err != nil {
		t.Fatalf("list runs: %v", err)
	}

	if len(runs) != 1 || runs[0].ID != id || runs[0].Source != "match.mp4" ||
		runs[0].SampleCount != 3 {
		t.Errorf("unexpected runs %+v", runs)
	}

	if err := store.DeleteRun(ctx, id); err != nil {
		t.Fatalf("delete run: %v", err)
	}

	rows, err = store.LoadRun(ctx, id)

	if err != nil || len(rows) != 0 {
		t.Errorf("expected samples removed with run, got %d (%v)", len(rows), err)
	}
}

func TestSaveHeatmapPNG(t *testing.T) {

	f := heatmap.NewBuilder(heatmap.DefaultParams()).Build(
		[]geometry.Point{{X: 400, Y: 300}, {X: 420, Y: 310}}, 80, 60)

	file := filepath.Join(t.TempDir(), "heatmap.png")

	if err := SaveHeatmapPNG(file, f, "Player 1"); err != nil {
		t.Fatalf("save png: %v", err)
	}

	info, err := os.Stat(file)

	if err != nil || info.Size() == 0 {
		t.Errorf("expected png written, got %v", err)
	}
}

func TestWriteHeatmapHTML(t *testing.T) {

	f := heatmap.NewBuilder(heatmap.DefaultParams()).Build(
		[]geometry.Point{{X: 400, Y: 300}}, 80, 60)

	var buf bytes.Buffer

	if err := WriteHeatmapHTML(&buf, f, "Player 7 heatmap", 4, heatmap.DefaultThreshold); err != nil {
		t.Fatalf("write html: %v", err)
	}

	page := buf.String()

	if !strings.Contains(page, "Player 7 heatmap") || !strings.Contains(page, "heatmap") {
		t.Errorf("rendered page missing chart content")
	}
}

func TestFieldGridFlipsRows(t *testing.T) {

	p := heatmap.DefaultParams()
	p.Sigma = 0

	f := heatmap.NewBuilder(p).Build([]geometry.Point{{X: 0, Y: 0}}, 4, 3)
	g := fieldGrid{f: f}

	c, r := g.Dims()

	if c != 4 || r != 3 {
		t.Fatalf("unexpected grid dims %dx%d", c, r)
	}

	// field row 0 is the top of the plot
	if g.Z(0, 2) != 1 || g.Z(0, 0) != 0 {
		t.Errorf("expected field row 0 at plot row 2")
	}
}

func TestTargetsWrite(t *testing.T) {

	dir := t.TempDir()

	tg := Targets{
		CSV:       filepath.Join(dir, "tracks.csv"),
		SQLite:    filepath.Join(dir, "tracks.db"),
		PNG:       filepath.Join(dir, "heatmap.png"),
		HTML:      filepath.Join(dir, "heatmap.html"),
		HTMLStep:  4,
		Threshold: heatmap.DefaultThreshold,
	}

	f := heatmap.NewBuilder(heatmap.DefaultParams()).Build(
		[]geometry.Point{{X: 100, Y: 100}}, 80, 60)

	sum, err := tg.Write(context.Background(), "match.mp4", testRows, f, "Player 1")

	if err != nil {
		t.Fatalf("write targets: %v", err)
	}

	if len(sum.Files) != 4 {
		t.Errorf("expected 4 files written, got %v", sum.Files)
	}

	store, err := OpenSQLite(tg.SQLite)

	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	defer store.Close()

	rows, err := store.LoadRun(context.Background(), sum.RunID)

	if err != nil {
		t.Fatalf("load run: %v", err)
	}

	if diff := cmp.Diff(testRows, rows); diff != "" {
		t.Errorf("saved rows mismatch (-want +got):\n%s", diff)
	}
}

func TestTargetsSkipsHeatmapWithoutField(t *testing.T) {

	dir := t.TempDir()

	tg := Targets{
		CSV: filepath.Join(dir, "tracks.csv"),
		PNG: filepath.Join(dir, "heatmap.png"),
	}

	sum, err := tg.Write(context.Background(), "match.mp4", testRows, nil, "")

	if err != nil {
		t.Fatalf("write targets: %v", err)
	}

	if diff := cmp.Diff([]string{tg.CSV}, sum.Files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	if _, err := os.Stat(tg.PNG); !os.IsNotExist(err) {
		t.Errorf("expected no png written")
	}
}

func TestTargetsJoinsErrors(t *testing.T) {

	missing := filepath.Join(t.TempDir(), "missing", "dir")

	tg := Targets{
		CSV:    filepath.Join(missing, "tracks.csv"),
		SQLite: filepath.Join(missing, "tracks.db"),
	}

	sum, err := tg.Write(context.Background(), "match.mp4", testRows, nil, "")

	if err == nil {
		t.Fatalf("expected error for missing directory")
	}

	if !strings.Contains(err.Error(), "csv") || !strings.Contains(err.Error(), "sqlite") {
		t.Errorf("expected both failures reported, got %v", err)
	}

	if len(sum.Files) != 0 || sum.RunID != uuid.Nil {
		t.Errorf("expected nothing written, got %+v", sum)
	}
}
