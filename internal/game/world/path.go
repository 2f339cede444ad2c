package world

import "container/heap"

type openNode struct {
	idx  int
	f    int
	h    int
	seq  int
	heap int
}

type openSet []*openNode

func (s openSet) Len() int { return len(s) }

func (s openSet) Less(i, j int) bool {
	if s[i].f != s[j].f {
		return s[i].f < s[j].f
	}
	if s[i].h != s[j].h {
		return s[i].h < s[j].h
	}
	return s[i].seq < s[j].seq
}

func (s openSet) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
	s[i].heap = i
	s[j].heap = j
}

func (s *openSet) Push(x any) {
	n := x.(*openNode)
	n.heap = len(*s)
	*s = append(*s, n)
}

func (s *openSet) Pop() any {
	old := *s
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.heap = -1
	*s = old[:len(old)-1]
	return n
}

// FindPath runs A* over the layer's 4-directional exit graph with unit
// step cost and a Manhattan heuristic.
//
// Ties on f are broken by the smaller heuristic, then by discovery order;
// neighbors are discovered west, east, north, south. The result lists the
// tile indices to step through after start, ending with goal.
//
// Postcondition: returns (nil, false) when no route exists; (empty, true)
// when start == goal.
func FindPath(l *Layer, start, goal int) ([]int, bool) {
	if start == goal {
		return []int{}, true
	}
	goalPt := l.PointAt(goal)
	h := func(idx int) int { return Manhattan(l.PointAt(idx), goalPt) }

	g := map[int]int{start: 0}
	cameFrom := make(map[int]int)
	closed := make(map[int]bool)
	open := &openSet{}
	seq := 0
	heap.Push(open, &openNode{idx: start, f: h(start), h: h(start), seq: seq})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*openNode)
		if closed[cur.idx] {
			continue
		}
		if cur.idx == goal {
			return reconstruct(cameFrom, start, goal), true
		}
		closed[cur.idx] = true
		for _, next := range l.AvailableExits(cur.idx) {
			if closed[next] {
				continue
			}
			cost := g[cur.idx] + 1
			if old, seen := g[next]; seen && cost >= old {
				continue
			}
			g[next] = cost
			cameFrom[next] = cur.idx
			seq++
			hn := h(next)
			heap.Push(open, &openNode{idx: next, f: cost + hn, h: hn, seq: seq})
		}
	}
	return nil, false
}

func reconstruct(cameFrom map[int]int, start, goal int) []int {
	var rev []int
	for cur := goal; cur != start; cur = cameFrom[cur] {
		rev = append(rev, cur)
	}
	out := make([]int, len(rev))
	for i, idx := range rev {
		out[len(rev)-1-i] = idx
	}
	return out
}
