package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/swdee/go-pitchtrack"
	"github.com/swdee/go-pitchtrack/config"
	"github.com/swdee/go-pitchtrack/export"
	"github.com/swdee/go-pitchtrack/heatmap"
	"github.com/swdee/go-pitchtrack/tracker"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Error reading .env file: %v", err)
	}

	// read in cli flags
	cfgFile := flag.String("c", os.Getenv("PITCHTRACK_CONFIG"), "YAML config file, defaults to $PITCHTRACK_CONFIG")
	detFile := flag.String("d", "", "Detections CSV recorded by the stream example, overrides export.detections")
	selected := flag.Int64("id", 0, "Player identity to export the heatmap of, 0 for none")
	trackFrom := flag.Int("from", -1, "Frame to start the selected player's tracking marker on")

	flag.Parse()

	cfg := config.Default()

	if *cfgFile != "" {
		var err error
		cfg, err = config.Load(*cfgFile)

		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}

	if *detFile == "" {
		*detFile = cfg.Export.Detections
	}

	if *detFile == "" {
		log.Fatal("No detections file given, use -d or set export.detections in the config")
	}

	f, err := os.Open(*detFile)

	if err != nil {
		log.Fatalf("Error opening detections: %v", err)
	}

	frames, err := export.ReadDetections(f)
	f.Close()

	if err != nil {
		log.Fatalf("Error reading detections: %v", err)
	}

	session := pitchtrack.NewSession(cfg.SessionOptions())
	sel := tracker.Identity(*selected)

	var last int

	for _, fr := range frames {

		if sel != 0 && *trackFrom >= 0 && fr.Index >= *trackFrom && !session.Marked(sel) {
			session.MarkStart(sel)
		}

		res := session.Observe(fr.Index, fr.Detections)
		last = fr.Index

		if res.New > 0 {
			log.Printf("Frame %d: %d tracked, %d new players\n", res.Frame,
				len(res.Tracked), res.New)
		}
	}

	log.Printf("Replayed %d frames, %d players\n", len(frames), len(session.Identities()))

	var field *heatmap.Field
	var title string

	if sel != 0 {
		if r, ok := session.Readout(sel, last); ok {
			fmt.Println(r)
		} else {
			log.Printf("Player %d was never tracked\n", sel)
		}

		if points, ok := session.Since(sel); ok {
			log.Printf("Player %d moved through %d positions since the marker\n",
				sel, len(points))
		}

		field = session.Heatmap(sel, cfg.Heatmap.Width, cfg.Heatmap.Height)
		title = fmt.Sprintf("Player %d heatmap", sel)
	}

	sum, err := cfg.ExportTargets().Write(context.Background(), *detFile,
		session.Rows(), field, title)

	for _, file := range sum.Files {
		log.Printf("Wrote %s\n", file)
	}

	if sum.RunID != uuid.Nil {
		log.Printf("Saved SQLite run %s\n", sum.RunID)
	}

	if err != nil {
		log.Fatalf("Error exporting: %v", err)
	}
}
