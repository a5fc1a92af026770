package render

import (
	"fmt"
	"io"

	"github.com/go-faster/jx"
)

// WriteReport writes results as an indented JSON document:
//
//	{"scenes": [{"name": ..., "crc32": "1a2b3c4d", ...}], "failed": 0}
func WriteReport(w io.Writer, results []Result) error {
	failed := 0
	var e jx.Encoder
	e.SetIdent(2)
	e.Obj(func(e *jx.Encoder) {
		e.Field("scenes", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, r := range results {
					if r.Err != nil {
						failed++
					}
					encodeResult(e, r)
				}
			})
		})
		e.Field("failed", func(e *jx.Encoder) { e.Int(failed) })
	})
	_, err := w.Write(append(e.Bytes(), '\n'))
	return err
}

func encodeResult(e *jx.Encoder, r Result) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("name", func(e *jx.Encoder) { e.Str(r.Scene) })
		e.Field("path", func(e *jx.Encoder) { e.Str(r.Path) })
		e.Field("frames", func(e *jx.Encoder) { e.Int(r.Frames) })
		e.Field("crc32", func(e *jx.Encoder) { e.Str(fmt.Sprintf("%08x", r.CRC)) })
		e.Field("cycles", func(e *jx.Encoder) { e.UInt64(r.Stats.Cycles) })
		e.Field("vblank_irqs", func(e *jx.Encoder) { e.UInt64(r.Stats.VBlankIRQs) })
		e.Field("stat_irqs", func(e *jx.Encoder) { e.UInt64(r.Stats.STATIRQs) })
		e.Field("elapsed_ms", func(e *jx.Encoder) { e.Float64(float64(r.Elapsed.Microseconds()) / 1000) })
		if r.PNG != "" {
			e.Field("png", func(e *jx.Encoder) { e.Str(r.PNG) })
		}
		if r.Err != nil {
			e.Field("error", func(e *jx.Encoder) { e.Str(r.Err.Error()) })
		}
	})
}
