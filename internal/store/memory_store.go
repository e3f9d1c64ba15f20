package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store, used in tests and for local smoke
// runs where wiring a real database is unnecessary.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[Prefix]map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore with all four prefixes
// initialized.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: map[Prefix]map[string][]byte{
			PrefixChunks:           {},
			PrefixSingleProcessing: {},
			PrefixAnswers:          {},
			PrefixDoubleProcessing: {},
		},
	}
}

func (s *MemoryStore) put(p Prefix, key string, data []byte) {
	s.objects[p][key] = data
}

func (s *MemoryStore) sortedBySize(p Prefix) []Object {
	out := make([]Object, 0, len(s.objects[p]))
	for k, v := range s.objects[p] {
		out = append(out, Object{Key: k, Data: v, Size: len(v)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size < out[j].Size
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func (s *MemoryStore) CheckoutSmallestChunk(ctx context.Context) (Object, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := s.sortedBySize(PrefixChunks)
	if len(candidates) == 0 {
		return Object{}, false, nil
	}
	smallest := candidates[0]
	delete(s.objects[PrefixChunks], smallest.Key)
	s.put(PrefixSingleProcessing, smallest.Key, smallest.Data)
	return smallest, true, nil
}

func (s *MemoryStore) CheckoutLargestAndSmallestAnswer(ctx context.Context) (largest, smallest Object, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := s.sortedBySize(PrefixAnswers)
	if len(candidates) < 2 {
		return Object{}, Object{}, false, nil
	}
	smallest = candidates[0]
	largest = candidates[len(candidates)-1]
	delete(s.objects[PrefixAnswers], smallest.Key)
	delete(s.objects[PrefixAnswers], largest.Key)
	s.put(PrefixDoubleProcessing, smallest.Key, smallest.Data)
	s.put(PrefixDoubleProcessing, largest.Key, largest.Data)
	return largest, smallest, true, nil
}

func (s *MemoryStore) SaveChunk(ctx context.Context, obj Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(PrefixChunks, obj.Key, obj.Data)
	return nil
}

func (s *MemoryStore) SaveAnswer(ctx context.Context, obj Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(PrefixAnswers, obj.Key, obj.Data)
	return nil
}

func (s *MemoryStore) DeleteChunk(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects[PrefixSingleProcessing], key)
	return nil
}

func (s *MemoryStore) DeleteAnswer(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects[PrefixDoubleProcessing], key)
	return nil
}

func (s *MemoryStore) DeleteLargestAnswer(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidates := s.sortedBySize(PrefixAnswers)
	if len(candidates) == 0 {
		return "", false, nil
	}
	largest := candidates[len(candidates)-1]
	delete(s.objects[PrefixAnswers], largest.Key)
	return largest.Key, true, nil
}

func (s *MemoryStore) Dump(ctx context.Context) (Object, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidates := s.sortedBySize(PrefixAnswers)
	if len(candidates) == 0 {
		return Object{}, false, nil
	}
	return candidates[len(candidates)-1], true, nil
}
