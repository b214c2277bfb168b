package service

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Locks serializes operations per entity or per calendar slot.
// Every read-modify-write on a student balance or a lesson status runs
// under the corresponding key, and detect+insert holds the
// (teacher, date) and (student, date) slot keys so two concurrent
// placements for the same slot cannot both pass conflict detection.
//
// The locks are process-local. A deployment with several instances
// would need to move this into a database transaction instead.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocks() *Locks {
	return &Locks{
		locks: make(map[string]*sync.Mutex),
	}
}

func (kl *Locks) get(key string) *sync.Mutex {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	lock, exists := kl.locks[key]
	if !exists {
		lock = &sync.Mutex{}
		kl.locks[key] = lock
	}
	return lock
}

// Lock acquires the keys in sorted order to avoid lock ordering
// deadlocks and returns an unlock function.
func (kl *Locks) Lock(keys ...string) func() {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	locked := make([]*sync.Mutex, 0, len(sorted))
	var prev string
	for i, key := range sorted {
		if i > 0 && key == prev {
			continue // same key requested twice
		}
		prev = key
		lock := kl.get(key)
		lock.Lock()
		locked = append(locked, lock)
	}

	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
	}
}

func lessonKey(id int64) string {
	return fmt.Sprintf("lesson:%d", id)
}

func studentKey(id int64) string {
	return fmt.Sprintf("student:%d", id)
}

func teacherSlotKey(teacherID int64, date time.Time) string {
	return fmt.Sprintf("slot:t:%d:%s", teacherID, date.Format("2006-01-02"))
}

func studentSlotKey(studentID int64, date time.Time) string {
	return fmt.Sprintf("slot:s:%d:%s", studentID, date.Format("2006-01-02"))
}
