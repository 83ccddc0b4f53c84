package picker

// Window describes the rows to materialise for the current scroll offset.
// TopPad and BottomPad are the heights standing in for the rows outside
// [Start, End) so the total scrollable height is preserved.
type Window struct {
	Start     int
	End       int
	TopPad    int
	BottomPad int
}

// Len is the number of materialised rows.
func (w Window) Len() int { return w.End - w.Start }

// Window computes the visible slice of the filtered rows. The number of rows
// never exceeds the rows per viewport plus twice the overscan, whatever the
// item count.
func (p *Picker) Window() Window {
	rowH := p.opts.RowHeight
	total := len(p.filtered)

	perViewport := max(1, (p.viewport+rowH-1)/rowH)
	start := max(0, p.scrollTop/rowH-p.opts.Overscan)
	end := min(total, start+perViewport+2*p.opts.Overscan)
	start = min(start, end)

	top := start * rowH
	return Window{
		Start:     start,
		End:       end,
		TopPad:    top,
		BottomPad: max(0, total*rowH-top-(end-start)*rowH),
	}
}

// ScrollTop returns the current scroll offset.
func (p *Picker) ScrollTop() int { return p.scrollTop }

// Viewport returns the height of the scroll container.
func (p *Picker) Viewport() int { return p.viewport }

// MaxScroll is the largest valid scroll offset for the current rows.
func (p *Picker) MaxScroll() int {
	return max(0, len(p.filtered)*p.opts.RowHeight-p.viewport)
}

// ScrollTo moves to offset, clamped to [0, MaxScroll].
func (p *Picker) ScrollTo(offset int) {
	p.scrollTop = clamp(offset, 0, p.MaxScroll())
}

// ScrollBy moves the scroll offset by delta.
func (p *Picker) ScrollBy(delta int) {
	p.ScrollTo(p.scrollTop + delta)
}

// Resize sets the viewport height. A non-positive height falls back to the
// configured visible rows. The scroll offset is clamped to the new maximum.
func (p *Picker) Resize(height int) {
	if height <= 0 {
		height = p.opts.VisibleRows * p.opts.RowHeight
	}
	p.viewport = height
	if p.scrollTop > p.MaxScroll() {
		p.scrollTop = p.MaxScroll()
	}
}
