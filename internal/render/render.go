// Package render runs scenes headless and reports the resulting frames.
package render

import (
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/emu"
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/log"
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/scene"
)

// ErrMismatch is returned when a frame checksum differs from the expected one.
var ErrMismatch = errors.New("checksum mismatch")

type Options struct {
	Frames int    // frames to run per scene
	OutDir string // write <scene>.png here, if set
	Expect string // expected framebuffer CRC32 (hex), if set
	Jobs   int    // scenes rendered concurrently, <= 0 means one per scene
}

type Result struct {
	Scene   string
	Path    string
	Frames  int
	CRC     uint32
	Stats   emu.Stats
	Elapsed time.Duration
	PNG     string // written image, if any
	Err     error
}

// ParseCRC accepts a CRC32 in hex, with or without 0x prefix.
func ParseCRC(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad crc32 %q: %w", s, err)
	}
	return uint32(v), nil
}

// Scene loads the scene at path into a fresh machine, runs it and checks the
// completed frame.
func Scene(cfg emu.Config, path string, opts Options) (Result, error) {
	res := Result{Path: path, Frames: max(opts.Frames, 1)}

	var want uint32
	if opts.Expect != "" {
		var err error
		if want, err = ParseCRC(opts.Expect); err != nil {
			return res, err
		}
	}

	s, err := scene.Load(path)
	if err != nil {
		return res, err
	}
	res.Scene = s.Name

	m := emu.New(cfg)
	s.Apply(m.Bus())

	start := time.Now()
	m.RunFrames(res.Frames)
	res.Elapsed = time.Since(start)
	res.Stats = m.Stats()
	res.CRC = crc32.ChecksumIEEE(m.Framebuffer())
	log.ModEmu.Debugf("%s: frames=%d elapsed=%s fb_crc32=%08x",
		s.Name, res.Frames, res.Elapsed.Truncate(time.Millisecond), res.CRC)

	if opts.OutDir != "" {
		res.PNG = filepath.Join(opts.OutDir, s.Name+".png")
		if err := SavePNG(m.Image(), res.PNG); err != nil {
			return res, fmt.Errorf("write PNG: %w", err)
		}
	}

	if opts.Expect != "" && res.CRC != want {
		return res, fmt.Errorf("%s: %w: got %08x, want %08x", s.Name, ErrMismatch, res.CRC, want)
	}
	return res, nil
}

// Scenes renders every path, each on its own machine. Results keep the order
// of paths; the returned error is the first failure.
func Scenes(cfg emu.Config, paths []string, opts Options) ([]Result, error) {
	results := make([]Result, len(paths))

	var g errgroup.Group
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res, err := Scene(cfg, path, opts)
			res.Err = err
			results[i] = res
			return err
		})
	}
	return results, g.Wait()
}

func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
