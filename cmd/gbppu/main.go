package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/emu"
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/render"
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/scene"
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/ui"
)

const version = "0.3.0"

func main() {
	cli := parseArgs(os.Args[1:])

	if cli.mode == versionMode {
		fmt.Println("gbppu", version)
		return
	}

	cfg, err := emu.LoadConfig(cli.Config)
	checkf(err, "failed to load configuration")

	switch cli.mode {
	case renderMode:
		checkf(runRender(cfg, cli.Render), "render failed")
	case viewMode:
		checkf(runView(cfg, cli.View), "viewer failed")
	}
}

func runRender(cfg emu.Config, args Render) error {
	opts := render.Options{
		Frames: args.Frames,
		OutDir: args.Out,
		Expect: args.Expect,
		Jobs:   args.Jobs,
	}
	results, err := render.Scenes(cfg, args.Scenes, opts)
	for _, r := range results {
		name := r.Scene
		if name == "" {
			name = r.Path
		}
		if r.Err != nil {
			fmt.Printf("%-20s FAIL %v\n", name, r.Err)
			continue
		}
		fps := float64(r.Frames) / r.Elapsed.Seconds()
		fmt.Printf("%-20s frames=%d elapsed=%s fps=%.2f fb_crc32=%08x\n",
			name, r.Frames, r.Elapsed.Truncate(time.Millisecond), fps, r.CRC)
		if r.PNG != "" {
			fmt.Printf("%-20s wrote %s\n", "", r.PNG)
		}
	}

	if args.Report != "" {
		if rerr := writeReport(args.Report, results); rerr != nil {
			return fmt.Errorf("write report: %w", rerr)
		}
	}
	return err
}

func writeReport(path string, results []render.Result) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return render.WriteReport(w, results)
}

func runView(cfg emu.Config, args View) error {
	if args.Scale > 0 {
		cfg.Video.Scale = args.Scale
	}
	if args.Shades != "" {
		cfg.Video.Shades = args.Shades
		if err := cfg.Check(); err != nil {
			return err
		}
	}

	s, err := scene.Load(args.Scene)
	if err != nil {
		return err
	}
	m := emu.New(cfg)
	s.Apply(m.Bus())

	app := ui.NewApp(ui.ConfigFrom(cfg), m, s.Name)
	return app.Run()
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
