package imbridge

// DrawData is the output of one frame: draw lists in paint order plus the
// display parameters renderers need. It stays valid until the next NewFrame.
type DrawData struct {
	Valid         bool
	CmdLists      []*DrawList
	TotalVtxCount int
	TotalIdxCount int

	DisplayPos       Vec2 // top-left of the display in GUI coordinates
	DisplaySize      Vec2
	FramebufferScale Vec2
}

// CmdCount returns the number of draw commands across all lists.
func (d *DrawData) CmdCount() int {
	n := 0
	for _, dl := range d.CmdLists {
		n += len(dl.CmdBuffer)
	}
	return n
}

// FramebufferSize returns the display size in framebuffer pixels. Fractional
// sizes are kept.
func (d *DrawData) FramebufferSize() (width, height float32) {
	return d.DisplaySize.X * d.FramebufferScale.X, d.DisplaySize.Y * d.FramebufferScale.Y
}
