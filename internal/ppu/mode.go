package ppu

import "github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/log"

// Mode is the PPU mode, numbered like the STAT mode bits.
type Mode byte

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAMSearch
	ModeDrawScanline
)

func (m Mode) String() string {
	switch m {
	case ModeHBlank:
		return "HBlank"
	case ModeVBlank:
		return "VBlank"
	case ModeOAMSearch:
		return "OAMSearch"
	case ModeDrawScanline:
		return "DrawScanline"
	}
	return "Mode(?)"
}

// Mode budgets, in cycles. Every line uses the same split.
const (
	hblankCycles     = 204
	vblankLineCycles = 456
	oamSearchCycles  = 80
	drawCycles       = 172

	LineCycles  = oamSearchCycles + drawCycles + hblankCycles
	FrameCycles = LineCycles * (lastLine + 1)

	visibleLines = 144
	lastLine     = 153
)

// event is a side effect produced by a mode transition.
type event uint16

const (
	evVBlankIRQ   event = 1 << iota // unconditional VBlank interrupt
	evVBlankSTAT                    // STAT if VBlank source enabled
	evOAMSTAT                       // STAT if OAM source enabled
	evHBlankSTAT                    // STAT if HBlank source enabled
	evCommitFrame                   // working framebuffer becomes the completed one
	evWrapFrame                     // window counter and latch restart
	evScanOAM                       // select objects for the current line
	evRenderLine                    // draw the current line
)

// step is the outcome of one transition.
type step struct {
	mode     Mode
	cycles   int
	line     byte
	events   event
	advanced bool // a budget was consumed
}

// transition computes the next state for the given mode, accumulated cycles
// and line. It has no side effects; Tick applies the returned events.
func transition(mode Mode, cycles int, line byte) step {
	st := step{mode: mode, cycles: cycles, line: line}
	switch mode {
	case ModeHBlank:
		if cycles < hblankCycles {
			return st
		}
		st.cycles -= hblankCycles
		st.line++
		if st.line == visibleLines {
			st.mode = ModeVBlank
			st.events = evVBlankIRQ | evVBlankSTAT
		} else {
			st.mode = ModeOAMSearch
			st.events = evOAMSTAT
		}
	case ModeVBlank:
		if cycles < vblankLineCycles {
			return st
		}
		st.cycles -= vblankLineCycles
		st.line++
		if st.line > lastLine {
			st.mode = ModeOAMSearch
			st.line = 0
			st.events = evCommitFrame | evOAMSTAT | evWrapFrame
		}
	case ModeOAMSearch:
		if cycles < oamSearchCycles {
			return st
		}
		st.cycles -= oamSearchCycles
		st.mode = ModeDrawScanline
		st.events = evScanOAM
	case ModeDrawScanline:
		if cycles < drawCycles {
			return st
		}
		st.cycles -= drawCycles
		st.mode = ModeHBlank
		st.events = evHBlankSTAT | evRenderLine
	}
	st.advanced = true
	return st
}

// Tick advances the PPU by the given number of cycles. Every mode budget the
// accumulated cycles reach is processed, so Tick(n) is equivalent to n calls
// of Tick(1).
func (p *PPU) Tick(cycles int) {
	if !Control(p.lcdc).DisplayEnabled() {
		if !p.wasDisabled {
			log.ModPPU.Debugf("lcd off at ly=%d mode=%s", p.ly, p.mode)
		}
		p.mode = ModeHBlank
		p.setModeBits()
		p.wasDisabled = true
		return
	}

	if p.wasDisabled {
		p.Reset(false)
		p.wasDisabled = false
		log.ModPPU.Debugf("lcd on, lcdc=%02x", p.lcdc)
	}

	p.cycles += cycles
	for {
		// STAT only fires on a rising edge of the OR of enabled sources.
		allow := !p.statAny()

		st := transition(p.mode, p.cycles, p.ly)
		p.mode, p.cycles, p.ly = st.mode, st.cycles, st.line
		p.apply(st.events, allow)

		p.compareLYC(allow)
		if p.wy == p.ly {
			p.winLatched = true
		}
		p.setModeBits()

		if !st.advanced {
			return
		}
	}
}

func (p *PPU) apply(ev event, allow bool) {
	if ev == 0 {
		return
	}
	if ev&evCommitFrame != 0 {
		p.fbDone = p.fb
		p.frames++
		log.ModPPU.Debugf("frame %d committed", p.frames)
	}
	if ev&evVBlankIRQ != 0 {
		p.request(IntVBlank)
	}
	if allow {
		if ev&evVBlankSTAT != 0 && p.stat&statVBlankInt != 0 {
			p.request(IntSTAT)
		}
		if ev&evOAMSTAT != 0 && p.stat&statOAMInt != 0 {
			p.request(IntSTAT)
		}
		if ev&evHBlankSTAT != 0 && p.stat&statHBlankInt != 0 {
			p.request(IntSTAT)
		}
	}
	if ev&evWrapFrame != 0 {
		p.winLine = 0
		p.winLatched = false
	}
	if ev&evScanOAM != 0 {
		p.scanOAM()
	}
	if ev&evRenderLine != 0 {
		p.renderScanline()
	}
}

func (p *PPU) request(bit int) {
	if p.req != nil {
		p.req(bit)
	}
}

// statAny reports whether any enabled STAT source is currently asserted.
func (p *PPU) statAny() bool {
	switch {
	case p.stat&statCoincidenceIn != 0 && p.stat&statCoincidence != 0:
		return true
	case p.stat&statOAMInt != 0 && p.mode == ModeOAMSearch:
		return true
	case p.stat&statVBlankInt != 0 && p.mode == ModeVBlank:
		return true
	case p.stat&statHBlankInt != 0 && p.mode == ModeHBlank:
		return true
	}
	return false
}

// compareLYC updates the coincidence flag and raises STAT on a match.
func (p *PPU) compareLYC(allow bool) {
	p.stat &^= statCoincidence
	if p.ly != p.lyc {
		return
	}
	p.stat |= statCoincidence
	if p.stat&statCoincidenceIn != 0 && allow {
		p.request(IntSTAT)
	}
}

func (p *PPU) setModeBits() {
	p.stat = (p.stat &^ statModeMask) | byte(p.mode)&statModeMask
}
