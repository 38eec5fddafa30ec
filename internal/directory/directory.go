// Package directory holds the live view of chat counterparts: one entry per
// counterpart id with presence, unread and pending-notification flags.
package directory

import (
	"sync"

	"karyab/client/internal/models"
)

// Directory maps counterpart ids to contact records. Entries are unique by
// id; re-adding an existing id merges flags in place rather than
// duplicating. All methods are safe for concurrent use, though in practice
// the dashboard controller is the only writer.
type Directory struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*models.Contact
}

func New() *Directory {
	return &Directory{byID: make(map[string]*models.Contact)}
}

// Upsert inserts the contact or shallow-merges it into the existing entry.
// Non-empty identity fields override, boolean flags only ever switch on here
// (they are cleared exclusively through ClearUnread), so applying the same
// payload twice leaves the directory unchanged.
func (d *Directory) Upsert(c models.Contact) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur, ok := d.byID[c.ID]
	if !ok {
		copyC := c
		d.byID[c.ID] = &copyC
		d.order = append(d.order, c.ID)
		return
	}

	if c.Name != "" {
		cur.Name = c.Name
	}
	if c.RoleLabel != "" {
		cur.RoleLabel = c.RoleLabel
	}
	if c.Online {
		cur.Online = true
	}
	if c.HasUnread {
		cur.HasUnread = true
	}
	if c.HasNewApplication {
		cur.HasNewApplication = true
	}
	if c.UnreadCount > cur.UnreadCount {
		cur.UnreadCount = c.UnreadCount
	}
}

// MarkUnread flags the contact as having an unread message. Unknown ids get
// a minimal placeholder entry; this is how first-time counterparts (e.g. a
// new applicant messaging out of the blue) enter the directory.
func (d *Directory) MarkUnread(id, name, fallbackRole string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if cur, ok := d.byID[id]; ok {
		cur.HasUnread = true
		cur.UnreadCount++
		if cur.Name == "" {
			cur.Name = name
		}
		return
	}

	d.byID[id] = &models.Contact{
		ID:          id,
		Name:        name,
		RoleLabel:   fallbackRole,
		Online:      true,
		HasUnread:   true,
		UnreadCount: 1,
	}
	d.order = append(d.order, id)
}

// ClearUnread resets the unread state for the contact. Called exactly when
// that contact's chat session becomes the open one.
func (d *Directory) ClearUnread(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if cur, ok := d.byID[id]; ok {
		cur.HasUnread = false
		cur.UnreadCount = 0
	}
}

// Get returns a copy of the contact with the given id.
func (d *Directory) Get(id string) (models.Contact, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	cur, ok := d.byID[id]
	if !ok {
		return models.Contact{}, false
	}
	return *cur, true
}

// List returns copies of all contacts in insertion order.
func (d *Directory) List() []models.Contact {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.Contact, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, *d.byID[id])
	}
	return out
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}
