package fontatlas

// rangeArena owns the zero-terminated glyph range buffers of one atlas build,
// one block per font index. Blocks stay valid until free.
type rangeArena struct {
	blocks map[int][]uint16
}

// alloc copies values plus a terminating zero into a block owned by font.
// Returns nil when values is empty.
func (a *rangeArena) alloc(font int, values []uint16) []uint16 {
	if len(values) == 0 {
		return nil
	}
	if a.blocks == nil {
		a.blocks = make(map[int][]uint16)
	}
	block := make([]uint16, len(values)+1)
	copy(block, values)
	a.blocks[font] = block
	return block
}

// block returns the ranges owned by font, or nil.
func (a *rangeArena) block(font int) []uint16 {
	return a.blocks[font]
}

// len returns the number of live blocks.
func (a *rangeArena) len() int {
	return len(a.blocks)
}

// free releases every block.
func (a *rangeArena) free() {
	clear(a.blocks)
}

// release frees the block owned by font.
func (a *rangeArena) release(font int) {
	delete(a.blocks, font)
}
