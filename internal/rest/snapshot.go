package rest

import (
	"context"

	"karyab/client/internal/models"
)

// Fallback role labels for counterparts whose metadata is missing.
const (
	LabelSpecialist = "specialist"
	LabelEmployer   = "employer"
)

// JobsSnapshot is one authoritative list fetch, already converted into the
// shapes the dashboard state consumes.
type JobsSnapshot struct {
	// Jobs is the employer's own postings, or the specialist's available
	// postings, depending on the dashboard role.
	Jobs []models.Job
	// Applications is the specialist's applied-to jobs; empty for
	// employers.
	Applications []models.Job
	// Contacts is the deduplicated counterpart list derived from the
	// records above, ready for directory upserts.
	Contacts []models.Contact
}

// Fetcher pulls REST snapshots for one dashboard role.
type Fetcher struct {
	api  API
	role models.Role
}

func NewFetcher(api API, role models.Role) *Fetcher {
	return &Fetcher{api: api, role: role}
}

// LoadProfile fetches the authenticated user.
func (f *Fetcher) LoadProfile(ctx context.Context) (*models.Profile, error) {
	return f.api.Me(ctx)
}

// LoadJobs fetches the role's list snapshots. For specialists the available
// and applied-to lists are fetched independently; a failure in one aborts
// neither profile loading nor the other snapshot consumers, so partial
// results are returned alongside the error.
func (f *Fetcher) LoadJobs(ctx context.Context) (*JobsSnapshot, error) {
	if f.role == models.RoleEmployer {
		jobs, err := f.api.MyJobs(ctx)
		if err != nil {
			return nil, err
		}
		return &JobsSnapshot{Jobs: jobs, Contacts: ContactsFromEmployerJobs(jobs)}, nil
	}

	snap := &JobsSnapshot{}
	jobs, availErr := f.api.AvailableJobs(ctx)
	if availErr == nil {
		snap.Jobs = jobs
	}
	apps, appsErr := f.api.MyApplications(ctx)
	if appsErr == nil {
		snap.Applications = apps
		snap.Contacts = ContactsFromApplications(apps)
	}
	if availErr != nil {
		return snap, availErr
	}
	return snap, appsErr
}

// ContactsFromEmployerJobs scans the employer's postings and collects every
// applicant plus any assigned specialist, deduplicated by id in first-seen
// order.
func ContactsFromEmployerJobs(jobs []models.Job) []models.Contact {
	var out []models.Contact
	seen := make(map[string]bool)

	add := func(u models.UserRef) {
		if u.ID == "" || seen[u.ID] {
			return
		}
		seen[u.ID] = true
		label := u.Job
		if label == "" {
			label = LabelSpecialist
		}
		out = append(out, models.Contact{
			ID:        u.ID,
			Name:      u.DisplayName(),
			RoleLabel: label,
			Online:    true,
		})
	}

	for _, job := range jobs {
		for _, a := range job.Applicants {
			add(a.Specialist)
		}
		if job.Specialist != nil {
			add(*job.Specialist)
		}
	}
	return out
}

// ContactsFromApplications scans the specialist's applied-to jobs and
// collects each distinct employer.
func ContactsFromApplications(jobs []models.Job) []models.Contact {
	var out []models.Contact
	seen := make(map[string]bool)

	for _, job := range jobs {
		if job.Employer == nil || job.Employer.ID == "" || seen[job.Employer.ID] {
			continue
		}
		seen[job.Employer.ID] = true
		out = append(out, models.Contact{
			ID:        job.Employer.ID,
			Name:      job.Employer.DisplayName(),
			RoleLabel: LabelEmployer,
			Online:    true,
		})
	}
	return out
}
