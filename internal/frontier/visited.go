package frontier

// visited is the set of canonical URLs already enqueued, keyed by the full
// URL string.
type visited struct {
	set map[string]struct{}
}

func newVisited() *visited {
	return &visited{
		set: make(map[string]struct{}),
	}
}

// add inserts u and reports whether it was absent.
func (v *visited) add(u string) bool {
	if _, ok := v.set[u]; ok {
		return false
	}
	v.set[u] = struct{}{}
	return true
}

func (v *visited) has(u string) bool {
	_, ok := v.set[u]
	return ok
}

func (v *visited) size() int { return len(v.set) }
