package internal

import "sync"

// ReferenceStore is an in-memory mapping from gateway-issued PAY_REQUEST_ID
// values to merchant references. Entries are written once at initiation and
// only read afterwards; they are never evicted, so the map grows with every
// initiation until the process restarts.
type ReferenceStore struct {
	mutex sync.RWMutex
	refs  map[string]string
}

func NewReferenceStore() *ReferenceStore {
	return &ReferenceStore{
		refs: make(map[string]string),
	}
}

func (s *ReferenceStore) Put(payRequestId, reference string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.refs[payRequestId] = reference
}

func (s *ReferenceStore) Get(payRequestId string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	reference, ok := s.refs[payRequestId]
	return reference, ok
}
