package placement

// pendingSet holds the original rows of one column that are not placed yet.
//
// Iteration order is the slice order: ascending at construction, and a
// removal moves the last id into the removed slot. Search tie-breaking
// depends on this order.
type pendingSet struct {
	ids []int
	pos []int // pos[id] is the index of id in ids, or -1
}

func newPendingSet(width int) *pendingSet {
	p := &pendingSet{
		ids: make([]int, width),
		pos: make([]int, width),
	}
	for i := range width {
		p.ids[i] = i
		p.pos[i] = i
	}
	return p
}

func (p *pendingSet) Len() int { return len(p.ids) }

func (p *pendingSet) Contains(id int) bool {
	return id >= 0 && id < len(p.pos) && p.pos[id] >= 0
}

// Remove reports whether id was pending.
func (p *pendingSet) Remove(id int) bool {
	if !p.Contains(id) {
		return false
	}
	i := p.pos[id]
	last := len(p.ids) - 1
	moved := p.ids[last]
	p.ids[i] = moved
	p.pos[moved] = i
	p.ids = p.ids[:last]
	p.pos[id] = -1
	return true
}

// IDs returns the pending ids in iteration order. The slice is shared.
func (p *pendingSet) IDs() []int { return p.ids }
