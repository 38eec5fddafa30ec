package dashboard

import (
	"context"
	"strings"
	"time"

	"karyab/client/internal/models"
	"karyab/client/internal/realtime"
	"karyab/client/internal/session"
)

// OpenChat makes the contact's conversation the open one. The previous
// session, if any, keeps its own log and is simply replaced; the new
// contact's unread state is cleared exactly here.
func (c *Controller) OpenChat(contact models.Contact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.sess = session.New(c.self.ID, contact)
	c.dir.ClearUnread(contact.ID)
}

// CloseChat ends the open conversation (navigate away).
func (c *Controller) CloseChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess = nil
}

// SendMessage sends a chat message to the open session's counterpart. The
// message is appended to the log optimistically, before any network
// acknowledgement; a failed publish leaves it in place (no rollback, no
// delivery feedback loop).
func (c *Controller) SendMessage(body string) error {
	if strings.TrimSpace(body) == "" {
		return &models.ValidationError{Message: "empty message"}
	}

	c.mu.Lock()
	if c.closed || c.sess == nil {
		c.mu.Unlock()
		return &models.ValidationError{Message: "no chat selected"}
	}
	if c.channel == nil || !channelAvailable(c.channel.State()) {
		c.mu.Unlock()
		return &models.ChannelError{Message: "channel unavailable"}
	}
	c.sess.AppendOutgoing(body)
	out := realtime.PrivateMessage{
		Recipient: c.sess.Counterpart().ID,
		Content:   body,
		RoomKey:   c.sess.RoomKey(),
	}
	c.mu.Unlock()

	if err := c.channel.Publish(out); err != nil {
		c.log.Warn().Err(err).Msg("message publish failed")
	}
	return nil
}

func channelAvailable(s realtime.State) bool {
	return s == realtime.StateConnected || s == realtime.StateAuthenticated
}

// PostJob creates a job, prepends it to the local list, and announces it to
// specialists so their lists update without polling.
func (c *Controller) PostJob(ctx context.Context, form models.JobForm) error {
	job, err := c.api.CreateJob(ctx, form)
	if err != nil {
		c.notes.Raise(models.NoteError, errMessage(err, "Failed to post the job. Please fill in all fields correctly."))
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.jobs = append([]models.Job{*job}, c.jobs...)
	self := c.self
	c.mu.Unlock()

	createdAt := time.Now()
	if job.CreatedAt != nil {
		createdAt = *job.CreatedAt
	}
	c.publish(realtime.JobPosting{
		JobID:        job.ID,
		Title:        job.Title,
		JobType:      job.JobType,
		Budget:       job.Budget,
		Location:     job.Location,
		EmployerID:   self.ID,
		EmployerName: self.DisplayName(),
		CreatedAt:    createdAt,
	})

	c.notes.Raise(models.NoteJobPosted, "Job posted successfully")
	return nil
}

// ApplyToJob files an application for one of the available jobs, notifies
// the employer over the channel, and then re-fetches both lists so local
// state matches the server.
func (c *Controller) ApplyToJob(ctx context.Context, jobID string) error {
	c.mu.Lock()
	var job *models.Job
	for i := range c.jobs {
		if c.jobs[i].ID == jobID {
			job = &c.jobs[i]
			break
		}
	}
	if job == nil || job.Employer == nil {
		c.mu.Unlock()
		err := &models.ValidationError{Message: "job not found"}
		c.notes.Raise(models.NoteError, err.Message)
		return err
	}
	jobTitle := job.Title
	employerID := job.Employer.ID
	self := c.self
	c.mu.Unlock()

	if err := c.api.Apply(ctx, jobID, applyNote); err != nil {
		c.notes.Raise(models.NoteError, errMessage(err, "Failed to submit the application"))
		return err
	}

	c.publish(realtime.JobApplication{
		JobID:          jobID,
		JobTitle:       jobTitle,
		SpecialistID:   self.ID,
		SpecialistName: self.DisplayName(),
		EmployerID:     employerID,
		AppliedAt:      time.Now(),
		Notes:          applyNote,
		SpecialistInfo: realtime.SpecialistInfo{
			ID:         self.ID,
			Name:       self.DisplayName(),
			Phone:      self.Phone,
			Job:        self.Job,
			Experience: self.Experience,
		},
	})

	c.notes.Raise(models.NoteJobApplied, "Your application was submitted successfully")

	if err := c.RefreshJobs(ctx); err != nil {
		c.log.Error().Err(err).Msg("job refresh after apply failed")
	}
	return nil
}

// AcceptApplicant assigns a specialist to a job. The job and applicant must
// exist in local state: validation fails fast with a domain error before
// any REST call is issued or any event published. On success the job list
// is re-fetched rather than patched, so the server copy wins.
func (c *Controller) AcceptApplicant(ctx context.Context, jobID, specialistID string) error {
	c.mu.Lock()
	var job *models.Job
	for i := range c.jobs {
		if c.jobs[i].ID == jobID {
			job = &c.jobs[i]
			break
		}
	}
	if job == nil {
		c.mu.Unlock()
		err := &models.ValidationError{Message: "job not found"}
		c.notes.Raise(models.NoteError, err.Message)
		return err
	}
	if !job.HasApplicant(specialistID) {
		c.mu.Unlock()
		err := &models.ValidationError{Message: "applicant not found for this job"}
		c.notes.Raise(models.NoteError, err.Message)
		return err
	}
	jobTitle := job.Title
	self := c.self
	c.mu.Unlock()

	if err := c.api.Accept(ctx, jobID, specialistID); err != nil {
		c.notes.Raise(models.NoteError, errMessage(err, "Failed to accept the applicant"))
		return err
	}

	if err := c.RefreshJobs(ctx); err != nil {
		c.log.Error().Err(err).Msg("job refresh after accept failed")
	}

	c.publish(realtime.AcceptanceNotice{
		JobID:        jobID,
		JobTitle:     jobTitle,
		SpecialistID: specialistID,
		EmployerID:   self.ID,
		EmployerName: self.DisplayName(),
		CompanyName:  self.CompanyName,
		StartDate:    time.Now(),
	})

	c.notes.Raise(models.NoteSpecialistAccepted, "Specialist accepted for the job")
	return nil
}

// publish emits a channel event, degrading silently when the channel is
// down: REST already persisted the change, counterparts will catch up on
// their next snapshot.
func (c *Controller) publish(out realtime.Outgoing) {
	if c.channel == nil {
		return
	}
	if err := c.channel.Publish(out); err != nil {
		c.log.Warn().Err(err).Str("event", out.EventName()).Msg("event publish failed")
	}
}
