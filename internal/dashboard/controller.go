// Package dashboard wires the realtime channel, the REST snapshots and the
// chat state into one controller per dashboard instance. The controller is
// the single owner of all mutable view state; every mutation goes through
// one of its methods.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"karyab/client/internal/directory"
	"karyab/client/internal/models"
	"karyab/client/internal/notify"
	"karyab/client/internal/realtime"
	"karyab/client/internal/rest"
	"karyab/client/internal/session"
)

// Channel is the slice of the realtime channel the controller depends on.
type Channel interface {
	Connect() error
	Publish(realtime.Outgoing) error
	Events() <-chan realtime.Incoming
	Done() <-chan struct{}
	State() realtime.State
	Close() error
}

// Note text sent along with every job application. The apply form has no
// free-text field, every application carries this fixed note.
const applyNote = "I would like to work on this project"

// Controller runs one dashboard instance: snapshot loading on mount, event
// routing while mounted, teardown on unmount.
type Controller struct {
	role    models.Role
	api     rest.API
	fetcher *rest.Fetcher
	channel Channel
	log     zerolog.Logger

	dir   *directory.Directory
	notes *notify.Center

	mu           sync.Mutex
	closed       bool
	self         models.Profile
	pageErr      error
	sess         *session.Session
	jobs         []models.Job
	applications []models.Job
}

func New(role models.Role, api rest.API, channel Channel, logger zerolog.Logger) *Controller {
	return &Controller{
		role:    role,
		api:     api,
		fetcher: rest.NewFetcher(api, role),
		channel: channel,
		log:     logger.With().Str("component", "dashboard").Str("role", string(role)).Logger(),
		dir:     directory.New(),
		notes:   notify.NewCenter(),
	}
}

// Mount loads the initial snapshots and brings the channel up. Profile and
// job loads are independent: a failure in one is surfaced but never aborts
// the other, and both run regardless of whether the socket connects.
func (c *Controller) Mount(ctx context.Context) {
	if err := c.loadProfile(ctx); err != nil {
		var authErr *models.AuthError
		if errors.As(err, &authErr) {
			c.mu.Lock()
			c.pageErr = err
			c.mu.Unlock()
		}
		c.log.Error().Err(err).Msg("profile load failed")
	}

	if err := c.RefreshJobs(ctx); err != nil {
		c.log.Error().Err(err).Msg("jobs load failed")
	}

	if c.channel == nil {
		return
	}
	if err := c.channel.Connect(); err != nil {
		// Realtime degrades silently to snapshot-only.
		c.log.Warn().Err(err).Msg("realtime channel not started")
		return
	}
	go c.pump()
}

// Close tears the dashboard down. Outstanding REST responses arriving after
// this point are dropped instead of mutating a torn-down view.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	if c.channel != nil {
		c.channel.Close()
	}
}

func (c *Controller) loadProfile(ctx context.Context) error {
	profile, err := c.fetcher.LoadProfile(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.self = *profile
	return nil
}

// RefreshJobs re-fetches the role's list snapshots and replaces local state
// with them. The snapshot is authoritative: whatever optimistic patches were
// applied locally are overwritten. Partial results are applied even when one
// of the underlying fetches failed.
func (c *Controller) RefreshJobs(ctx context.Context) error {
	snap, err := c.fetcher.LoadJobs(ctx)
	if snap == nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	if snap.Jobs != nil {
		c.jobs = snap.Jobs
	}
	if snap.Applications != nil {
		c.applications = snap.Applications
	}
	// Upserts stay under the same critical section as the closed check so
	// a snapshot that raced Close cannot touch torn-down state.
	for _, contact := range snap.Contacts {
		c.dir.Upsert(contact)
	}
	return err
}

func (c *Controller) pump() {
	for {
		select {
		case ev := <-c.channel.Events():
			c.Route(ev)
		case <-c.channel.Done():
			return
		}
	}
}

// Route dispatches one inbound event. The open-session id is re-evaluated
// here, at delivery time: an event for a chat that was open when the event
// was sent but has since been replaced is routed to the directory and the
// notification slot, never misattributed to the new session.
func (c *Controller) Route(ev realtime.Incoming) {
	switch ev := ev.(type) {
	case realtime.AuthAck:
		c.log.Info().Str("user", ev.UserID).Msg("channel authenticated")
	case realtime.ChannelFailure:
		c.log.Warn().Str("event", ev.Event).Str("message", ev.Message).Msg("channel error")
	case realtime.PrivateMessage:
		c.routeMessage(ev)
	case realtime.JobApplication:
		c.routeApplication(ev)
	case realtime.JobPosting:
		c.routeJobPosted(ev)
	case realtime.AcceptanceNotice:
		c.routeAccepted(ev)
	}
}

func (c *Controller) routeMessage(ev realtime.PrivateMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if c.sess != nil && c.sess.Counterpart().ID == ev.Sender {
		c.sess.AppendIncoming(ev.ID, ev.Body())
		return
	}

	c.dir.MarkUnread(ev.Sender, ev.SenderName, c.counterpartLabel())
	c.notes.Raise(models.NoteNewMessage, "New message from "+ev.SenderName)
}

func (c *Controller) routeApplication(ev realtime.JobApplication) {
	if c.role != models.RoleEmployer {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for i := range c.jobs {
		if c.jobs[i].ID != ev.JobID {
			continue
		}
		if !c.jobs[i].HasApplicant(ev.SpecialistID) {
			appliedAt := ev.AppliedAt
			c.jobs[i].Applicants = append(c.jobs[i].Applicants, models.Applicant{
				Specialist: models.UserRef{
					ID:         ev.SpecialistID,
					Username:   ev.SpecialistName,
					Job:        ev.SpecialistInfo.Job,
					Phone:      ev.SpecialistInfo.Phone,
					Experience: ev.SpecialistInfo.Experience,
				},
				Notes:     ev.Notes,
				AppliedAt: &appliedAt,
			})
		}
		break
	}

	label := ev.SpecialistInfo.Job
	if label == "" {
		label = rest.LabelSpecialist
	}
	c.dir.Upsert(models.Contact{
		ID:                ev.SpecialistID,
		Name:              ev.SpecialistName,
		RoleLabel:         label,
		Online:            true,
		HasNewApplication: true,
	})
	c.notes.Raise(models.NoteNewApplication,
		fmt.Sprintf("New application for %q from %s", ev.JobTitle, ev.SpecialistName))
}

func (c *Controller) routeJobPosted(ev realtime.JobPosting) {
	if c.role != models.RoleSpecialist {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for _, job := range c.jobs {
		if job.ID == ev.JobID {
			return
		}
	}

	createdAt := ev.CreatedAt
	c.jobs = append([]models.Job{{
		ID:        ev.JobID,
		Title:     ev.Title,
		JobType:   ev.JobType,
		Budget:    ev.Budget,
		Location:  ev.Location,
		CreatedAt: &createdAt,
		Employer:  &models.UserRef{ID: ev.EmployerID, Username: ev.EmployerName},
	}}, c.jobs...)

	c.notes.Raise(models.NoteNewJob, "New job: "+ev.Title)
}

func (c *Controller) routeAccepted(ev realtime.AcceptanceNotice) {
	if c.role != models.RoleSpecialist {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for _, job := range c.applications {
		if job.ID == ev.JobID {
			return
		}
	}

	startDate := ev.StartDate
	c.applications = append([]models.Job{{
		ID:        ev.JobID,
		Title:     ev.JobTitle,
		Status:    models.JobStatusInProgress,
		StartDate: &startDate,
		Employer: &models.UserRef{
			ID:          ev.EmployerID,
			Username:    ev.EmployerName,
			CompanyName: ev.CompanyName,
		},
	}}, c.applications...)

	c.notes.Raise(models.NoteJobAccepted,
		fmt.Sprintf("Your application for %q was accepted!", ev.JobTitle))
}

func (c *Controller) counterpartLabel() string {
	if c.role == models.RoleEmployer {
		return rest.LabelSpecialist
	}
	return rest.LabelEmployer
}

// errMessage prefers the server-provided failure text over the generic
// fallback when the response actually carried one.
func errMessage(err error, fallback string) string {
	var netErr *models.NetworkError
	if errors.As(err, &netErr) && netErr.Status != 0 && netErr.Message != "" {
		return netErr.Message
	}
	return fallback
}
