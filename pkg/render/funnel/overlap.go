package funnel

// overlapCorrection pushes overlapping outside labels apart. Each cycle
// scans neighbouring labels in stacking order, groups the ones that touch,
// and restacks every group around the middle of its bands. The loop stops
// when a scan finds nothing or after MaxOverlapIterations cycles; overlap
// left at that point is accepted.
func (p *pass) overlapCorrection() {
	if p.opts.OverlapMode != NoOverlap || !p.labelPos.Outside() || !p.opts.labelsEnabled() {
		return
	}
	p.domains = newDomainSet(len(p.points), p.reversed)
	p.iterations = 0

	for p.iterations < p.opts.MaxOverlapIterations {
		if !p.scan() {
			return
		}
		for _, members := range p.domains.groups() {
			p.restack(members)
		}
		p.iterations++
	}
	p.capped = true
}

// scan merges each label with its directional neighbour when they touch
// and reports whether any pair did.
func (p *pass) scan() bool {
	count := len(p.points)
	found := false
	for i := 0; i < count-1; i++ {
		idx := count - 1 - i
		if p.reversed {
			idx = i
		}
		l := p.points[idx].Label
		if !l.Visible() {
			continue
		}
		sib := p.sibling(idx)
		if sib == nil {
			continue
		}
		if p.domains.same(l.Index, sib.Index) {
			continue
		}
		if sib.Bounds.Top <= l.Bounds.Top+l.Bounds.Height {
			found = true
			p.domains.union(l.Index, sib.Index)
		}
	}
	return found
}

// sibling is the next visible label below row idx on screen.
func (p *pass) sibling(idx int) *Label {
	if p.reversed {
		for j := idx + 1; j < len(p.points); j++ {
			if l := p.points[j].Label; l.Visible() {
				return l
			}
		}
		return nil
	}
	for j := idx - 1; j >= 0; j-- {
		if l := p.points[j].Label; l.Visible() {
			return l
		}
	}
	return nil
}

// restack lays the labels of one group out contiguously around the middle
// of their bands, kept inside the chart bounds.
func (p *pass) restack(members []int) {
	var firstPointTop, pointsHeight, domainHeight float64
	for k, i := range members {
		pb := p.points[i].Bounds()
		if k == 0 {
			firstPointTop = pb.Top
		}
		domainHeight += p.points[i].Label.Bounds.Height
		pointsHeight += pb.Height
	}
	pointsHeight += p.padding * float64(len(members)-1)

	y := firstPointTop + pointsHeight/2 - domainHeight/2
	if y+domainHeight > p.bounds.Bottom() {
		y = p.bounds.Bottom() - domainHeight
	}
	if y < p.bounds.Top {
		y = p.bounds.Top
	}

	var heightSum, offsetSum float64
	var prev *Label
	for _, i := range members {
		l := p.points[i].Label
		h := l.Bounds.Height
		newY := y + heightSum + offsetSum + h/2

		if prev != nil {
			prevBottom := prev.Y + prev.Bounds.Height/2 + prev.Settings.GetOffsetY()
			curTop := newY - h/2 + l.Settings.GetOffsetY()
			if curTop < prevBottom {
				newY += prevBottom - curTop
			}
		}

		l.Y = newY
		p.remeasure(l)
		p.updateConnector(l)

		heightSum += h
		offsetSum += l.Settings.GetOffsetY()
		prev = l
	}
}
