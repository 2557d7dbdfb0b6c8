package popover

import "github.com/SphereStacking/Fluopanel/geometry"

// Record is the popover-specific extension of a window record: the
// anchor rectangle captured at open time, the alignment and vertical
// offset that produced its position, the enforced max_height, and a
// descriptive label for whatever exclusive-group request opened it.
type Record struct {
	ID             string
	Label          string
	Anchor         geometry.Rect
	Align          Align
	OffsetY        float64
	MaxHeight      float64
	ExclusiveGroup string
}

func (e Exclusive) describe() string {
	switch e.kind {
	case exclusiveAll:
		return "all"
	case exclusivePrefix:
		return "prefix:" + e.prefix
	default:
		return "none"
	}
}
