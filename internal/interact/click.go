package interact

import "time"

const (
	// ClickDelay is how long a release waits for a second one before it
	// counts as a single click.
	ClickDelay = 250 * time.Millisecond
	// ClickTolerance is how far, in cells, the second click may land.
	ClickTolerance = 1
)

// Click is what a single release resolved to.
type Click struct {
	// Double is set when the release completed a pair.
	Double bool
	// Seq is the pending single click to pass to Expire after Delay.
	Seq int
	// Flushed is set when a pending single click could not pair with this
	// release (too far, or its expiry has not been delivered yet). That
	// click fires at Superseded right away.
	Flushed    bool
	Superseded Pixel
}

// ClickDetector turns button releases into single and double clicks. A
// double click swallows the single click its first release started; a
// distant second release flushes it instead.
type ClickDetector struct {
	Delay     time.Duration
	Tolerance int

	pending bool
	seq     int
	last    Pixel
	lastAt  time.Time
}

func NewClickDetector() *ClickDetector {
	return &ClickDetector{Delay: ClickDelay, Tolerance: ClickTolerance}
}

// Release records a release at px.
func (d *ClickDetector) Release(px Pixel, now time.Time) Click {
	var c Click
	if d.pending {
		d.pending = false
		if now.Sub(d.lastAt) <= d.Delay && d.near(px) {
			return Click{Double: true}
		}
		c.Flushed, c.Superseded = true, d.last
	}
	d.seq++
	d.pending = true
	d.last = px
	d.lastAt = now
	c.Seq = d.seq
	return c
}

// Expire fires the single click for seq if no second release consumed it.
func (d *ClickDetector) Expire(seq int) (Pixel, bool) {
	if !d.pending || seq != d.seq {
		return Pixel{}, false
	}
	d.pending = false
	return d.last, true
}

// Seq identifies the most recent release that may become a single click.
func (d *ClickDetector) Seq() int { return d.seq }

// Cancel drops a pending single click, e.g. when a drag starts.
func (d *ClickDetector) Cancel() { d.pending = false }

func (d *ClickDetector) near(px Pixel) bool {
	dx, dy := px.X-d.last.X, px.Y-d.last.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= d.Tolerance && dy <= d.Tolerance
}
