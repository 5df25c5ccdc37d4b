package state

import (
	"sort"
	"sync"
	"time"

	"github.com/lukegackle/Netdata-Docker-Integration/pkg/container"
)

// SharedMutable is the keyed record store the poller reconciles into and
// the outer surfaces read from. Writes go through channels so callers never
// block on the mutex; reads copy under it. The agent treats this like a
// singleton.
type SharedMutable struct {
	mutex         sync.Mutex
	cluster       string
	initTimestamp time.Time
	records       map[string]container.Record
	recordChannel chan container.Record
	deleteChannel chan string
	errChannel    chan error
}

// New instantiates a SharedMutable state and opens the goroutines draining
// the write channels.
func New(cluster string) *SharedMutable {
	s := &SharedMutable{
		cluster:       cluster,
		initTimestamp: time.Now(),
		records:       make(map[string]container.Record),
		recordChannel: make(chan container.Record),
		deleteChannel: make(chan string),
	}
	go s.upsertHandler()
	go s.deletionHandler()
	return s
}

func (s *SharedMutable) upsertHandler() {
	for rec := range s.recordChannel {
		s.mutex.Lock()
		s.records[rec.Key()] = rec
		s.mutex.Unlock()
	}
}

func (s *SharedMutable) deletionHandler() {
	for key := range s.deleteChannel {
		s.mutex.Lock()
		delete(s.records, key)
		s.mutex.Unlock()
	}
}

// InitTimestamp returns the timestamp of when the SharedMutable state was
// created.
func (s *SharedMutable) InitTimestamp() time.Time {
	return s.initTimestamp
}

// Cluster returns the name this agent reports under.
func (s *SharedMutable) Cluster() string {
	return s.cluster
}

// Upsert sends a record to the upsert channel keyed by Record.Key.
func (s *SharedMutable) Upsert(rec container.Record) {
	s.recordChannel <- rec
}

// Get returns the record for the given key.
func (s *SharedMutable) Get(key string) (container.Record, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	rec, ok := s.records[key]
	return rec, ok
}

// Delete sends a key to the deletion channel.
func (s *SharedMutable) Delete(key string) {
	s.deleteChannel <- key
}

// Keys returns the stored record keys in sorted order.
func (s *SharedMutable) Keys() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored records.
func (s *SharedMutable) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.records)
}

// Snapshot returns a copy of the stored records.
func (s *SharedMutable) Snapshot() map[string]container.Record {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	out := make(map[string]container.Record, len(s.records))
	for k, v := range s.records {
		out[k] = v
	}
	return out
}

// SetErrChannel sets a shared error channel.
func (s *SharedMutable) SetErrChannel(errChannel chan error) {
	s.errChannel = errChannel
}

// Error sends an error to the error channel.
func (s *SharedMutable) Error(e error) {
	s.errChannel <- e
}
