package service

import "github.com/samber/lo"

// AdmissionQueue is the FIFO backlog of requester ids awaiting a busy
// responder. It is not scoped per responder: every responder sees the whole
// queue. Not safe for concurrent use; the Coordinator serializes access.
type AdmissionQueue struct {
	ids    []string
	member map[string]struct{}
}

func NewAdmissionQueue() *AdmissionQueue {
	return &AdmissionQueue{
		member: make(map[string]struct{}),
	}
}

// Enqueue appends id unless it is already waiting. Reports whether the
// queue changed.
func (q *AdmissionQueue) Enqueue(id string) bool {
	if _, ok := q.member[id]; ok {
		return false
	}
	q.member[id] = struct{}{}
	q.ids = append(q.ids, id)
	return true
}

// Remove drops id wherever it sits. Reports whether the queue changed.
func (q *AdmissionQueue) Remove(id string) bool {
	if _, ok := q.member[id]; !ok {
		return false
	}
	delete(q.member, id)
	q.ids = lo.Filter(q.ids, func(v string, _ int) bool { return v != id })
	return true
}

func (q *AdmissionQueue) Contains(id string) bool {
	_, ok := q.member[id]
	return ok
}

// List returns the waiting ids in insertion order, as a copy.
func (q *AdmissionQueue) List() []string {
	out := make([]string, len(q.ids))
	copy(out, q.ids)
	return out
}

func (q *AdmissionQueue) Len() int {
	return len(q.ids)
}
