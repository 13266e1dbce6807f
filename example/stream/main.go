package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/swdee/go-pitchtrack"
	"github.com/swdee/go-pitchtrack/config"
	"github.com/swdee/go-pitchtrack/detect"
	"github.com/swdee/go-pitchtrack/export"
	"github.com/swdee/go-pitchtrack/geometry"
	"github.com/swdee/go-pitchtrack/heatmap"
	"github.com/swdee/go-pitchtrack/render"
	"github.com/swdee/go-pitchtrack/tracker"
	"gocv.io/x/gocv"
)

// fallbackFPS paces playback when the video does not report a frame rate
const fallbackFPS = 25

// Latest holds the most recent JPEG of a view and wakes up the MJPEG
// streams waiting on it
type Latest struct {
	mu   sync.Mutex
	buf  []byte
	next chan struct{}
}

// NewLatest returns an empty view
func NewLatest() *Latest {
	return &Latest{next: make(chan struct{})}
}

// Set replaces the JPEG and notifies waiting streams
func (l *Latest) Set(buf []byte) {
	l.mu.Lock()
	l.buf = buf
	close(l.next)
	l.next = make(chan struct{})
	l.mu.Unlock()
}

// Get returns the current JPEG and a channel closed on the next Set
func (l *Latest) Get() ([]byte, <-chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf, l.next
}

// FrameStats is the message broadcast to websocket clients per frame
type FrameStats struct {
	Frame    int   `json:"frame"`
	Tracked  int   `json:"tracked"`
	New      int   `json:"new"`
	Skipped  int   `json:"skipped"`
	Players  int   `json:"players"`
	Selected int64 `json:"selected"`
}

// Demo plays a video through the detector and tracking session and serves
// the annotated views over HTTP
type Demo struct {
	cfg      config.Config
	video    *gocv.VideoCapture
	detector *detect.Detector
	// class is the label index of the tracked objects
	class  int
	label  string
	runner *pitchtrack.Runner
	plane  geometry.Plane
	fps    float64
	// detectEvery selects frames run through the detector and refresh
	// selects frames the pitch and heatmap views are redrawn on
	detectEvery pitchtrack.Cadence
	refresh     pitchtrack.Cadence
	// selected is the highlighted identity, zero for none
	selected atomic.Int64
	field    atomic.Pointer[heatmap.Field]
	frames   *Latest
	pitch    *Latest
	heat     *Latest
	hub      *Hub
	dumpFile *os.File
	dump     *export.DetectionWriter

	boxStyle   render.BoxStyle
	trailStyle render.TrailStyle
	pitchStyle render.PitchStyle
	font       render.Font
}

// NewDemo opens the video and model named in the config
func NewDemo(cfg config.Config) (*Demo, error) {

	video, err := gocv.VideoCaptureFile(cfg.Source.Video)

	if err != nil {
		return nil, fmt.Errorf("error opening video: %w", err)
	}

	if cfg.Source.FPS == 0 {
		cfg.Source.FPS = video.Get(gocv.VideoCaptureFPS)
	}

	if cfg.Source.Width == 0 || cfg.Source.Height == 0 {
		cfg.Source.Width = int(video.Get(gocv.VideoCaptureFrameWidth))
		cfg.Source.Height = int(video.Get(gocv.VideoCaptureFrameHeight))
	}

	srcW, srcH := cfg.SourceSize()
	cfg.Source.Width, cfg.Source.Height = srcW, srcH

	log.Printf("Video %s at %dx%d, %.2f FPS\n", cfg.Source.Video, srcW, srcH,
		cfg.Source.FPS)

	labels, err := detect.LoadLabels(cfg.Detector.Labels)

	if err != nil {
		video.Close()
		return nil, fmt.Errorf("error loading model labels: %w", err)
	}

	class, err := labels.Index(cfg.Tracking.Class)

	if err != nil {
		video.Close()
		return nil, err
	}

	detector, err := detect.NewDetector(cfg.Detector.Model,
		cfg.Detector.InputWidth, cfg.Detector.InputHeight, cfg.YOLOv8Params())

	if err != nil {
		video.Close()
		return nil, fmt.Errorf("error loading model: %w", err)
	}

	d := &Demo{
		cfg:         cfg,
		video:       video,
		detector:    detector,
		class:       class,
		label:       labels.Name(class),
		plane:       geometry.NewPlane(float64(srcW), float64(srcH), cfg.Plane.Width, cfg.Plane.Height, cfg.Plane.Margin),
		fps:         cfg.Source.FPS,
		detectEvery: pitchtrack.NewCadence(cfg.Tracking.DetectEvery),
		refresh:     pitchtrack.NewCadence(cfg.Heatmap.RefreshEvery),
		frames:      NewLatest(),
		pitch:       NewLatest(),
		heat:        NewLatest(),
		hub:         NewHub(),
		boxStyle:    render.DefaultBoxStyle(),
		trailStyle:  render.DefaultTrailStyle(),
		pitchStyle:  render.DefaultPitchStyle(),
		font:        render.LabelFont(),
	}

	if d.fps <= 0 {
		d.fps = fallbackFPS
	}

	if cfg.Export.Detections != "" {
		d.dumpFile, err = os.Create(cfg.Export.Detections)

		if err != nil {
			d.Close()
			return nil, fmt.Errorf("error creating detections file: %w", err)
		}

		d.dump = export.NewDetectionWriter(d.dumpFile)
	}

	d.runner = pitchtrack.NewRunner(pitchtrack.NewSession(cfg.SessionOptions()), 8)
	d.runner.OnFrame(d.onFrame)

	return d, nil
}

// Close frees the video and model
func (d *Demo) Close() {

	d.video.Close()

	if err := d.detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}

	if d.dumpFile != nil {
		d.dumpFile.Close()
	}
}

// onFrame is called on the runner goroutine after each observed frame
func (d *Demo) onFrame(s *pitchtrack.Session, res pitchtrack.FrameResult) {

	msg, err := json.Marshal(FrameStats{
		Frame:    res.Frame,
		Tracked:  len(res.Tracked),
		New:      res.New,
		Skipped:  res.Skipped,
		Players:  len(s.Identities()),
		Selected: d.selected.Load(),
	})

	if err != nil {
		log.Printf("Error encoding frame stats: %v", err)
		return
	}

	d.hub.Broadcast(msg)
}

// Play reads the video at its frame rate until the last frame or the context
// is cancelled
func (d *Demo) Play(ctx context.Context) error {

	img := gocv.NewMat()
	defer img.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	size := image.Pt(d.cfg.Source.Width, d.cfg.Source.Height)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / d.fps))
	defer ticker.Stop()

	for idx := 0; ; idx++ {

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if ok := d.video.Read(&img); !ok {
			// reached last video frame
			return nil
		}

		if img.Empty() {
			continue
		}

		if img.Cols() != size.X || img.Rows() != size.Y {
			gocv.Resize(img, &frame, size, 0, 0, gocv.InterpolationLinear)
		} else {
			img.CopyTo(&frame)
		}

		if d.detectEvery.Due(idx) {
			if err := d.observe(ctx, frame, idx); err != nil {
				return err
			}
		}

		err := d.runner.Do(ctx, func(s *pitchtrack.Session) {
			d.annotate(s, &frame, idx)
		})

		if err != nil {
			return err
		}

		if err := d.publish(d.frames, frame); err != nil {
			log.Printf("Error encoding frame %d: %v", idx, err)
		}
	}
}

// observe runs the detector on the frame and submits the detections of the
// tracked class to the session
func (d *Demo) observe(ctx context.Context, img gocv.Mat, idx int) error {

	res, err := d.detector.Detect(img)

	if err != nil {
		log.Printf("Error detecting objects on frame %d: %v", idx, err)
		return nil
	}

	dets := tracker.FromResults(res.GetDetectResults(), d.class, d.label, idx)

	if d.dump != nil {
		if err := d.dump.Write(idx, dets); err != nil {
			log.Printf("Error writing detections: %v", err)
		}
	}

	return d.runner.Submit(ctx, pitchtrack.Frame{Index: idx, Detections: dets})
}

// annotate draws the overlay on the video frame and refreshes the pitch
// views of the selected identity, it runs on the runner goroutine
func (d *Demo) annotate(s *pitchtrack.Session, img *gocv.Mat, idx int) {

	sel := tracker.Identity(d.selected.Load())
	overlay := s.Overlay()

	render.Trails(img, overlay, s.All, d.trailStyle)
	render.IdentityBoxes(img, overlay, sel, d.font, d.boxStyle)

	if sel == 0 {
		return
	}

	if r, ok := s.Readout(sel, idx); ok {
		render.Readout(img, r, image.Pt(10, 10), render.ReadoutFont())
	}

	if !d.refresh.Due(idx) {
		return
	}

	pitch := render.NewPitch(d.plane, d.pitchStyle)
	defer pitch.Close()

	heat := pitch.Clone()
	defer heat.Close()

	if points, ok := s.Since(sel); ok {
		render.PlaneTrail(&pitch, d.plane, points, d.pitchStyle)
	}

	field := s.Heatmap(sel, d.cfg.Heatmap.Width, d.cfg.Heatmap.Height)
	d.field.Store(field)

	if err := render.HeatmapOverlay(&heat, field, d.cfg.Heatmap.Threshold); err != nil {
		log.Printf("Error drawing heatmap: %v", err)
	}

	if err := d.publish(d.pitch, pitch); err != nil {
		log.Printf("Error encoding pitch view: %v", err)
	}

	if err := d.publish(d.heat, heat); err != nil {
		log.Printf("Error encoding heatmap view: %v", err)
	}
}

// publish encodes the image as a JPEG into the view
func (d *Demo) publish(view *Latest, img gocv.Mat) error {

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)

	if err != nil {
		return err
	}

	defer buf.Close()

	view.Set(bytes.Clone(buf.GetBytes()))
	return nil
}

// Export writes the configured trajectory and heatmap files.  The heatmap
// files are of the selected identity.
func (d *Demo) Export(ctx context.Context) error {

	if d.dump != nil {
		if err := d.dump.Flush(); err != nil {
			log.Printf("Error flushing detections: %v", err)
		}
	}

	var rows []tracker.Row
	var field *heatmap.Field
	var title string

	err := d.runner.Do(ctx, func(s *pitchtrack.Session) {

		rows = s.Rows()

		if sel := tracker.Identity(d.selected.Load()); sel != 0 {
			field = s.Heatmap(sel, d.cfg.Heatmap.Width, d.cfg.Heatmap.Height)
			title = fmt.Sprintf("Player %d heatmap", sel)
		}
	})

	if err != nil {
		return err
	}

	sum, err := d.cfg.ExportTargets().Write(ctx, d.cfg.Source.Video, rows, field, title)

	for _, file := range sum.Files {
		log.Printf("Wrote %s\n", file)
	}

	return err
}

// Stream returns the HTTP handler streaming the view as MJPEG
func Stream(view *Latest) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		log.Printf("New client connection established on %s\n", r.URL.Path)

		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")

		flusher, _ := w.(http.Flusher)

		for {
			buf, next := view.Get()

			if buf != nil {
				if err := writePart(w, buf); err != nil {
					return
				}

				if flusher != nil {
					flusher.Flush()
				}
			}

			select {
			case <-r.Context().Done():
				log.Printf("Client disconnected\n")
				return
			case <-next:
			}
		}
	}
}

func writePart(w http.ResponseWriter, buf []byte) error {

	if _, err := w.Write([]byte("--frame\r\nContent-Type: image/jpeg\r\n\r\n")); err != nil {
		return err
	}

	if _, err := w.Write(buf); err != nil {
		return err
	}

	_, err := w.Write([]byte("\r\n"))
	return err
}

// parseID reads the id query parameter
func parseID(r *http.Request) (tracker.Identity, error) {

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)

	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid id %q", r.URL.Query().Get("id"))
	}

	return tracker.Identity(id), nil
}

// Select highlights an identity, id=0 clears the selection
func (d *Demo) Select(w http.ResponseWriter, r *http.Request) {

	id, err := parseID(r)

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d.selected.Store(int64(id))
	// the heatmap page waits for the next refresh of the new selection
	d.field.Store(nil)

	fmt.Fprintf(w, "selected %d\n", id)
}

// Track starts the pitch view trail of the selected identity from now on
func (d *Demo) Track(w http.ResponseWriter, r *http.Request) {
	d.withSelected(w, r, func(s *pitchtrack.Session, id tracker.Identity) {
		s.MarkStart(id)
	})
}

// Clear empties the trajectory of the selected identity
func (d *Demo) Clear(w http.ResponseWriter, r *http.Request) {
	d.withSelected(w, r, func(s *pitchtrack.Session, id tracker.Identity) {
		s.Clear(id)
	})
}

func (d *Demo) withSelected(w http.ResponseWriter, r *http.Request,
	fn func(*pitchtrack.Session, tracker.Identity)) {

	id := tracker.Identity(d.selected.Load())

	if id == 0 {
		http.Error(w, "no player selected", http.StatusConflict)
		return
	}

	err := d.runner.Do(r.Context(), func(s *pitchtrack.Session) {
		fn(s, id)
	})

	if errors.Is(err, pitchtrack.ErrClosed) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	} else if err != nil {
		return
	}

	fmt.Fprintf(w, "%s %d\n", r.URL.Path[1:], id)
}

// Heatmap renders the interactive heatmap page of the selected identity
func (d *Demo) Heatmap(w http.ResponseWriter, r *http.Request) {

	field := d.field.Load()

	if field == nil {
		http.Error(w, "no heatmap for the selected player yet", http.StatusNotFound)
		return
	}

	title := fmt.Sprintf("Player %d heatmap", d.selected.Load())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := export.WriteHeatmapHTML(w, field, title, 4, d.cfg.Heatmap.Threshold); err != nil {
		log.Printf("Error rendering heatmap page: %v", err)
	}
}

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// a .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Error reading .env file: %v", err)
	}

	// read in cli flags
	cfgFile := flag.String("c", os.Getenv("PITCHTRACK_CONFIG"), "YAML config file, defaults to $PITCHTRACK_CONFIG")
	vidFile := flag.String("v", "", "Video file to track players on, overrides the config")
	httpAddr := flag.String("a", "", "HTTP Address to run server on, format address:port")

	flag.Parse()

	cfg := config.Default()

	if *cfgFile != "" {
		var err error
		cfg, err = config.Load(*cfgFile)

		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}

	if *vidFile != "" {
		cfg.Source.Video = *vidFile
	}

	if *httpAddr != "" {
		cfg.Server.Addr = *httpAddr
	}

	if cfg.Source.Video == "" {
		log.Fatal("No video file given, use -v or set source.video in the config")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	demo, err := NewDemo(cfg)

	if err != nil {
		log.Fatalf("Error creating demo: %v", err)
	}

	defer demo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go demo.hub.Run(ctx)

	// the runner outlives playback so exports and the HTTP controls still
	// reach the session after the last frame
	go demo.runner.Run(context.Background())

	mux := http.NewServeMux()
	mux.HandleFunc("/stream", Stream(demo.frames))
	mux.HandleFunc("/pitch", Stream(demo.pitch))
	mux.HandleFunc("/heat", Stream(demo.heat))
	mux.HandleFunc("/heatmap", demo.Heatmap)
	mux.HandleFunc("/select", demo.Select)
	mux.HandleFunc("/track", demo.Track)
	mux.HandleFunc("/clear", demo.Clear)
	mux.Handle("/ws", demo.hub)

	server := &http.Server{Addr: cfg.Server.Addr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	log.Printf("Open browser and view video at http://%s/stream\n", cfg.Server.Addr)
	log.Printf("Select a player with http://%s/select?id=N\n", cfg.Server.Addr)

	if err := demo.Play(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Playback stopped: %v", err)
	}

	if err := demo.Export(context.Background()); err != nil {
		log.Printf("Error exporting: %v", err)
	}

	if ctx.Err() == nil {
		log.Printf("Video finished, press Ctrl-C to exit\n")
		<-ctx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	demo.runner.Close()
	<-demo.runner.Done()
}
