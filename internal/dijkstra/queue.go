package dijkstra

import (
	"container/heap"

	"github.com/gyaneshwarpardhi/navigation/internal/graph"
)

// item is a queued node plus its current heap slot.
type item struct {
	node  *graph.Node
	index int
}

// queue is a min-heap of nodes ordered by MinDistance. A node appears at most
// once; lowering its distance re-prioritizes the existing entry. Order among
// equal distances is unspecified.
type queue struct {
	items []*item
	byKey map[*graph.Node]*item
}

func newQueue(capacity int) *queue {
	return &queue{
		items: make([]*item, 0, capacity),
		byKey: make(map[*graph.Node]*item, capacity),
	}
}

// push enqueues n, or restores heap order if n is already queued.
// n.MinDistance must already hold the new priority.
func (q *queue) push(n *graph.Node) {
	if it, ok := q.byKey[n]; ok {
		heap.Fix(q, it.index)
		return
	}
	heap.Push(q, &item{node: n})
}

func (q queue) Len() int { return len(q.items) }

func (q queue) Less(i, j int) bool {
	return q.items[i].node.MinDistance < q.items[j].node.MinDistance
}

func (q queue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}

func (q *queue) Push(x interface{}) {
	it := x.(*item)
	it.index = len(q.items)
	q.items = append(q.items, it)
	q.byKey[it.node] = it
}

func (q *queue) Pop() interface{} {
	old := q.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	delete(q.byKey, it.node)
	it.index = -1
	return it
}
