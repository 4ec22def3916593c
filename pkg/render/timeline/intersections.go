package timeline

// Bounds is a point's box in stacking coordinates: x in pixels from the
// plot's left edge, y in pixels away from the axis on the point's side.
type Bounds struct {
	SX float64 `json:"sX" bson:"sx"`
	EX float64 `json:"eX" bson:"ex"`
	SY float64 `json:"sY" bson:"sy"`
	EY float64 `json:"eY" bson:"ey"`
}

// overlapsX is strict, so boxes that only touch do not collide.
func (b Bounds) overlapsX(o Bounds) bool { return b.SX < o.EX && o.SX < b.EX }

func (b Bounds) overlapsY(o Bounds) bool { return b.SY < o.EY && o.SY < b.EY }

func (b Bounds) collides(o Bounds) bool { return b.overlapsX(o) && b.overlapsY(o) }

// intersections stacks boxes away from the axis. Exclusive boxes (range
// bars) only avoid other exclusive boxes; the rest (moment labels) only
// avoid each other, so labels may float over bars.
type intersections struct {
	exclusive []*Bounds
	shared    []*Bounds
}

// add moves b away from the axis until it collides with nothing in its
// class, then records it. Each move puts b directly on top of the box it
// hit, keeping its height.
func (s *intersections) add(b *Bounds, exclusive bool) {
	placed := s.shared
	if exclusive {
		placed = s.exclusive
	}
	for {
		hit := firstCollision(*b, placed)
		if hit == nil {
			break
		}
		h := b.EY - b.SY
		b.SY = hit.EY
		b.EY = b.SY + h
	}
	if exclusive {
		s.exclusive = append(s.exclusive, b)
	} else {
		s.shared = append(s.shared, b)
	}
}

func firstCollision(b Bounds, placed []*Bounds) *Bounds {
	for _, o := range placed {
		if b.collides(*o) {
			return o
		}
	}
	return nil
}
