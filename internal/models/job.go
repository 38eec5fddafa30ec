package models

import "time"

// Job statuses as reported by the REST API.
const (
	JobStatusOpen       = "OPEN"
	JobStatusInProgress = "IN_PROGRESS"
)

// Location is the job's place of work. Coordinates are [longitude, latitude]
// when present.
type Location struct {
	Coordinates []float64 `json:"coordinates"`
	City        string    `json:"city"`
	Province    string    `json:"province"`
}

// UserRef is the embedded user object the REST API attaches to jobs and
// applications. Only the fields the dashboard consumes are mapped.
type UserRef struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	Name        string `json:"name,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Job         string `json:"job,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Experience  int    `json:"experience,omitempty"`
}

// DisplayName prefers the full name over the login name.
func (u UserRef) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Applicant is one entry in a job's applicant sub-list.
type Applicant struct {
	Specialist UserRef    `json:"specialist"`
	Notes      string     `json:"notes,omitempty"`
	AppliedAt  *time.Time `json:"appliedAt,omitempty"`
}

// Job mirrors the job record the REST API returns. Entries are mutated by
// snapshot refreshes and realtime events, never deleted by the client.
type Job struct {
	ID          string      `json:"_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	JobType     string      `json:"jobType"`
	Budget      int         `json:"budget"`
	Location    Location    `json:"location"`
	Status      string      `json:"status,omitempty"`
	CreatedAt   *time.Time  `json:"createdAt,omitempty"`
	StartDate   *time.Time  `json:"startDate,omitempty"`
	Employer    *UserRef    `json:"employer,omitempty"`
	Specialist  *UserRef    `json:"specialist,omitempty"`
	Applicants  []Applicant `json:"applicants,omitempty"`
}

// HasApplicant reports whether the given specialist already appears in the
// job's applicant list.
func (j Job) HasApplicant(specialistID string) bool {
	for _, a := range j.Applicants {
		if a.Specialist.ID == specialistID {
			return true
		}
	}
	return false
}

// JobForm carries the fields of the post-job form to the REST API.
type JobForm struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	JobType     string   `json:"jobType"`
	Budget      int      `json:"budget"`
	Location    Location `json:"location"`
}

// Profile is the authenticated user as returned by GET /auth/me.
type Profile struct {
	ID          string    `json:"_id"`
	Username    string    `json:"username"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	UserType    Role      `json:"userType"`
	CompanyName string    `json:"companyName,omitempty"`
	Job         string    `json:"job,omitempty"`
	Experience  int       `json:"experience,omitempty"`
	Location    *Location `json:"location,omitempty"`
}

// DisplayName prefers the full name over the login name.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Username
}
