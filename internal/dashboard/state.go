package dashboard

import "karyab/client/internal/models"

// Read-side accessors for the presentation layer. All of them return
// copies; the controller keeps exclusive ownership of the state itself.

// Profile returns the authenticated user loaded on mount.
func (c *Controller) Profile() models.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.self
}

// PageError reports the blocking page-level failure, currently only a
// missing/invalid auth token.
func (c *Controller) PageError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageErr
}

// Contacts lists the chat counterparts with their unread/presence flags.
func (c *Controller) Contacts() []models.Contact {
	return c.dir.List()
}

// Contact looks up a single directory entry.
func (c *Controller) Contact(id string) (models.Contact, bool) {
	return c.dir.Get(id)
}

// Jobs returns the primary job list: the employer's own postings or the
// specialist's available postings.
func (c *Controller) Jobs() []models.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Job, len(c.jobs))
	copy(out, c.jobs)
	return out
}

// Applications returns the specialist's applied-to jobs.
func (c *Controller) Applications() []models.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Job, len(c.applications))
	copy(out, c.applications)
	return out
}

// Notification returns the pending single-slot notification, if any.
func (c *Controller) Notification() (models.Notification, bool) {
	return c.notes.Current()
}

// OpenContact returns the counterpart of the open chat session.
func (c *Controller) OpenContact() (models.Contact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return models.Contact{}, false
	}
	return c.sess.Counterpart(), true
}

// Messages returns the open session's log in append order.
func (c *Controller) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return nil
	}
	return c.sess.Messages()
}
