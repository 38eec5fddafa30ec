// Package notify implements the dashboard's single-slot notification
// surface. A new notification overwrites the previous one; display lifetime
// belongs to the presentation layer.
package notify

import (
	"sync"
	"time"

	"karyab/client/internal/models"
)

// Center holds at most one pending notification per dashboard instance.
type Center struct {
	mu      sync.Mutex
	current *models.Notification
	now     func() time.Time
}

func NewCenter() *Center {
	return &Center{now: time.Now}
}

// Raise overwrites the slot with a new notification.
func (c *Center) Raise(kind, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = &models.Notification{Kind: kind, Message: message, Time: c.now()}
}

// Current returns the pending notification, if any.
func (c *Center) Current() (models.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return models.Notification{}, false
	}
	return *c.current, true
}
