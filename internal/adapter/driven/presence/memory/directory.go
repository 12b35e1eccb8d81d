package memory

import (
	"sort"
	"sync"

	"github.com/Wyydra/switchboard/internal/core/domain"
	"github.com/samber/lo"
)

// implements port.Directory
type Directory struct {
	mu     sync.RWMutex
	byID   map[string]domain.Participant
	byConn map[domain.ConnID]string
}

func NewDirectory() *Directory {
	return &Directory{
		byID:   make(map[string]domain.Participant),
		byConn: make(map[domain.ConnID]string),
	}
}

func (d *Directory) Register(id string, role domain.Role, conn domain.ConnID) (domain.Participant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.byID[id]; ok {
		if existing.Conn == conn {
			// same socket re-registering, keep the entry as is
			return existing, nil
		}
		return domain.Participant{}, domain.ErrDuplicateID
	}

	p := domain.Participant{
		ID:   id,
		Role: role,
		Conn: conn,
	}
	d.byID[id] = p
	d.byConn[conn] = id
	return p, nil
}

func (d *Directory) ByID(id string) (domain.Participant, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.byID[id]
	return p, ok
}

func (d *Directory) ByConn(conn domain.ConnID) (domain.Participant, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byConn[conn]
	if !ok {
		return domain.Participant{}, false
	}
	p, ok := d.byID[id]
	return p, ok
}

func (d *Directory) SetBusy(id string, busy bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.byID[id]
	if !ok {
		return
	}
	p.Busy = busy
	d.byID[id] = p
}

func (d *Directory) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.byID[id]
	if !ok {
		return
	}
	delete(d.byID, id)
	delete(d.byConn, p.Conn)
}

func (d *Directory) Snapshot() []domain.PresenceEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries := lo.MapToSlice(d.byID, func(_ string, p domain.Participant) domain.PresenceEntry {
		return domain.PresenceEntry{
			ID:   p.ID,
			Role: p.Role,
			Busy: p.Busy,
		}
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}
