package atlas

// shelfPacker implements shelf-based rectangle packing.
//
// Rectangles are placed left to right on horizontal shelves. A shelf is as
// tall as the tallest item placed on it; when no shelf has room a new one
// is opened below the last. Allocations are never freed.
type shelfPacker struct {
	width   int
	height  int
	padding int
	shelves []shelf

	usedArea int
}

// shelf represents a horizontal strip in the atlas.
type shelf struct {
	y      int // Y position of shelf top
	height int // Height of the shelf (tallest item so far)
	x      int // Next free X position
}

func newShelfPacker(width, height, padding int) *shelfPacker {
	return &shelfPacker{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// allocate finds space for a w x h rectangle and returns its top-left
// corner, or ok == false if the packer is out of vertical space.
func (p *shelfPacker) allocate(w, h int) (x, y int, ok bool) {
	paddedW := w + p.padding
	paddedH := h + p.padding

	if paddedW > p.width {
		return -1, -1, false
	}

	for i := range p.shelves {
		s := &p.shelves[i]

		if s.x+paddedW > p.width {
			continue
		}

		if h > s.height {
			// Only the last shelf can grow taller without overlapping.
			if i != len(p.shelves)-1 || s.y+paddedH > p.height {
				continue
			}
			s.height = h
		}

		x, y = s.x, s.y
		s.x += paddedW
		p.usedArea += w * h
		return x, y, true
	}

	newY := p.nextShelfY()
	if newY+paddedH > p.height {
		return -1, -1, false
	}

	p.shelves = append(p.shelves, shelf{y: newY, height: h, x: paddedW})
	p.usedArea += w * h
	return 0, newY, true
}

// nextShelfY returns the top of the shelf that would be opened next.
func (p *shelfPacker) nextShelfY() int {
	if len(p.shelves) == 0 {
		return 0
	}
	last := p.shelves[len(p.shelves)-1]
	return last.y + last.height + p.padding
}

// grow extends the packable height. Existing shelves are untouched.
func (p *shelfPacker) grow(height int) {
	if height > p.height {
		p.height = height
	}
}

// utilization returns the fraction of the packable area in use.
func (p *shelfPacker) utilization() float64 {
	if p.width <= 0 || p.height <= 0 {
		return 0
	}
	return float64(p.usedArea) / float64(p.width*p.height)
}
