// internal/runutil/lru_set.go
package runutil

import "container/list"

// LRUSet is a size-bounded set with O(1) hit/insert and least-recently-used
// eviction. The zero value is not usable; call NewLRUSet.
type LRUSet[K comparable] struct {
	cap int
	ll  *list.List
	m   map[K]*list.Element
}

func NewLRUSet[K comparable](capacity int) *LRUSet[K] {
	if capacity <= 0 {
		capacity = 1000
	}
	return &LRUSet[K]{cap: capacity, ll: list.New(), m: make(map[K]*list.Element, capacity)}
}

// Add inserts k (or refreshes it). When the set overflows, the least
// recently added key is dropped and returned with evicted = true.
func (s *LRUSet[K]) Add(k K) (dropped K, evicted bool) {
	if e, ok := s.m[k]; ok {
		s.ll.MoveToFront(e)
		return dropped, false
	}
	s.m[k] = s.ll.PushFront(k)
	if s.ll.Len() > s.cap {
		tail := s.ll.Back()
		s.ll.Remove(tail)
		dropped = tail.Value.(K)
		delete(s.m, dropped)
		return dropped, true
	}
	return dropped, false
}

// Remove drops k, freeing its slot. It reports whether k was present.
func (s *LRUSet[K]) Remove(k K) bool {
	e, ok := s.m[k]
	if !ok {
		return false
	}
	s.ll.Remove(e)
	delete(s.m, k)
	return true
}

// Len is the number of keys held.
func (s *LRUSet[K]) Len() int { return s.ll.Len() }
