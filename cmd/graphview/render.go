package main

import (
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/backend"
	"github.com/gogpu/graphview/internal/config"
	"github.com/gogpu/graphview/internal/scene"
	"github.com/gogpu/graphview/telemetry"
)

type renderFlags struct {
	config  string
	scene   string
	backend string
	output  string
	width   int
	height  int
	metrics bool
}

func renderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Replay a scene and write the final frame as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "YAML config file")
	fl.StringVar(&f.scene, "scene", "", "YAML scene file (default: built-in sample)")
	fl.StringVar(&f.backend, "backend", "", "backend name, overrides the config")
	fl.StringVarP(&f.output, "output", "o", "graph.png", "output PNG file")
	fl.IntVar(&f.width, "width", 0, "surface width, overrides the config")
	fl.IntVar(&f.height, "height", 0, "surface height, overrides the config")
	fl.BoolVar(&f.metrics, "metrics", false, "print collected metrics after rendering")
	return cmd
}

func loadConfig(f renderFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return nil, err
		}
	}
	if f.backend != "" {
		cfg.Backend = f.backend
	}
	if f.width > 0 {
		cfg.Surface.Width = f.width
	}
	if f.height > 0 {
		cfg.Surface.Height = f.height
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return scene.Parse([]byte(sampleScene))
	}
	return scene.Load(path)
}

func render(f renderFlags, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	graphview.SetLogger(slog.New(cfg.Log.Handler(stderr)))

	sc, err := loadScene(f.scene)
	if err != nil {
		return err
	}

	w, h := cfg.Surface.Width, cfg.Surface.Height
	r, err := backend.Get(cfg.Backend, w, h)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m, err := telemetry.NewMetrics(reg)
	if err != nil {
		return err
	}

	opts := append(cfg.ViewerOptions(), graphview.WithRenderer(r), graphview.WithObserver(m))
	v := graphview.NewViewer(w, h, opts...)
	defer func() {
		if cur := v.Renderer(); cur != nil {
			_ = cur.Close()
		}
	}()

	if _, err := sc.Replay(v, switchBackend); err != nil {
		return err
	}

	frame, err := v.Draw()
	if err != nil {
		return err
	}
	if err := writePNG(f.output, v.Renderer()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %d nodes, %d edges (%d skipped) via %s\n",
		f.output, len(frame.Nodes), len(frame.Edges), len(frame.Skipped), frame.Backend)

	if f.metrics {
		return printMetrics(stdout, reg)
	}
	return nil
}

// switchBackend replaces the viewer's renderer with a fresh one of the
// same surface size and closes the old one.
func switchBackend(v *graphview.Viewer, name string) error {
	w, h := v.Viewport().Size()
	r, err := backend.Get(name, w, h)
	if err != nil {
		return err
	}
	if prev := v.SetRenderer(r); prev != nil {
		return prev.Close()
	}
	return nil
}

func writePNG(path string, r graphview.Renderer) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(file, r.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// printMetrics writes every gathered family in the Prometheus text
// exposition format.
func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	if c, ok := enc.(expfmt.Closer); ok {
		return c.Close()
	}
	return nil
}

const sampleScene = `
layout:
  nodes:
    - {id: gateway, x: 0, y: 0}
    - {id: auth, x: -120, y: 90}
    - {id: orders, x: 120, y: 90}
    - {id: db, x: 0, y: 200}
  edges:
    - {source: gateway, target: auth}
    - {source: gateway, target: orders}
    - {source: auth, target: db}
    - {source: orders, target: db}
events:
  - {type: wheel, x: 400, y: 300, delta: -1}
`
