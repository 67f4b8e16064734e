package minhash

// rankedKmer is a k-mer occurrence together with its rank in one hash table
type rankedKmer struct {
	rank uint32
	pos  int
}

// before orders occurrences by rank, ties go to the earliest position
func (r rankedKmer) before(other rankedKmer) bool {
	if r.rank != other.rank {
		return r.rank < other.rank
	}
	return r.pos < other.pos
}

// rankHeap keeps the lowest ranked occurrences (we're satisfying the heap interface: https://golang.org/pkg/container/heap/)
type rankHeap []rankedKmer

// the less method is returning the larger value, so that it is at index position 0 in the heap
func (rankHeap rankHeap) Less(i, j int) bool { return rankHeap[j].before(rankHeap[i]) }
func (rankHeap rankHeap) Swap(i, j int)      { rankHeap[i], rankHeap[j] = rankHeap[j], rankHeap[i] }
func (rankHeap rankHeap) Len() int           { return len(rankHeap) }

// Push is a method to add an element to the heap
func (rankHeap *rankHeap) Push(x interface{}) {
	// dereference the pointer to modify the slice's length, not just its contents
	*rankHeap = append(*rankHeap, x.(rankedKmer))
}

// Pop is a method to remove an element from the heap
func (rankHeap *rankHeap) Pop() interface{} {
	old := *rankHeap
	n := len(old)
	x := old[n-1]
	*rankHeap = old[0 : n-1]
	return x
}
