package ppu

// Tile fetch helpers shared by the background and window passes.
// All addresses are VRAM offsets (0x0000 = bus address 0x8000).

// tileRowAddr returns the VRAM offset of row fineY of tile tileNum.
// With 0x8000 addressing the tile number is unsigned from the start of VRAM;
// with 0x8800 addressing it is signed relative to 0x9000.
func tileRowAddr(tileData8000 bool, tileNum, fineY byte) uint16 {
	row := uint16(fineY&7) * 2
	if tileData8000 {
		return uint16(tileNum)*16 + row
	}
	return uint16(0x1000+int(int8(tileNum))*16) + row
}

// colorIndex extracts the 2-bit color index at bit from a tile row's two bit planes.
// Bit 7 is the leftmost pixel.
func colorIndex(lo, hi, bit byte) byte {
	return ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
}

// fetchMapPixel resolves the color index at (x, y) of the 256x256 plane
// described by the tile map at mapBase.
func (p *PPU) fetchMapPixel(mapBase uint16, tileData8000 bool, x, y byte) byte {
	col := uint16(x/8) & 31
	row := uint16(y/8) & 31
	tileNum := p.vram[mapBase+row*32+col]
	addr := tileRowAddr(tileData8000, tileNum, y&7)
	lo := p.vram[addr]
	hi := p.vram[addr+1]
	return colorIndex(lo, hi, 7-(x&7))
}
