package frontier

// Entry is one unit of crawl work: a canonical URL and its logical depth.
type Entry struct {
	URL   string
	Depth int
}

// queue is a FIFO of entries. It carries no lock of its own; the Frontier
// mutex guards it.
type queue struct {
	totalQueued int
	elements    []Entry
	head        int
}

func newQueue() *queue {
	return &queue{
		elements: make([]Entry, 0, 64),
	}
}

func (q *queue) push(e Entry) {
	q.elements = append(q.elements, e)
	q.totalQueued++
}

// --- pop front (BFS)
func (q *queue) popFront() (Entry, bool) {
	if q.head == len(q.elements) {
		return Entry{}, false
	}
	e := q.elements[q.head]
	q.elements[q.head] = Entry{}
	q.head++

	// reclaim the consumed prefix once it dominates the backing array
	if q.head == len(q.elements) {
		q.elements = q.elements[:0]
		q.head = 0
	} else if q.head > 1024 && q.head*2 > len(q.elements) {
		n := copy(q.elements, q.elements[q.head:])
		q.elements = q.elements[:n]
		q.head = 0
	}
	return e, true
}

func (q *queue) size() int { return len(q.elements) - q.head }
