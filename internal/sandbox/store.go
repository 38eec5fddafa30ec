// Package sandbox is a self-contained development server the dashboard can
// run against: the REST endpoints and the socket relay the real backend
// exposes, backed by an embedded sqlite database.
package sandbox

import (
	"errors"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User types, matching the userType values the dashboards expect.
const (
	userTypeEmployer   = "employer"
	userTypeSpecialist = "specialist"
)

// User is a marketplace account, employer or specialist.
type User struct {
	ID          string `gorm:"primaryKey"`
	Username    string `gorm:"uniqueIndex;not null"`
	Name        string
	UserType    string `gorm:"not null"`
	CompanyName string
	Phone       string
	Job         string
	Experience  int
}

// BeforeCreate generates the account id when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// Job is a posting created by an employer.
type Job struct {
	ID           string `gorm:"primaryKey"`
	Title        string `gorm:"not null"`
	Description  string
	JobType      string
	Budget       int
	City         string
	Province     string
	Status       string  `gorm:"not null"`
	EmployerID   string  `gorm:"index;not null"`
	SpecialistID *string `gorm:"index"`
	CreatedAt    time.Time
	StartDate    *time.Time
	Applications []Application `gorm:"foreignKey:JobID"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.Status == "" {
		j.Status = "OPEN"
	}
	return nil
}

// Application links a specialist to a job they applied for.
type Application struct {
	ID           uint   `gorm:"primaryKey"`
	JobID        string `gorm:"uniqueIndex:idx_job_specialist;not null"`
	SpecialistID string `gorm:"uniqueIndex:idx_job_specialist;not null"`
	Notes        string
	AppliedAt    time.Time
}

// Store wraps the sandbox database.
type Store struct {
	DB *gorm.DB
}

// Open connects to the sqlite file (":memory:" works too) and runs the
// schema migration.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&User{}, &Job{}, &Application{}); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// EnsureUser returns the account with the given username, creating it with
// the provided fields on first sight.
func (s *Store) EnsureUser(u *User) error {
	return s.DB.Where(User{Username: u.Username}).FirstOrCreate(u).Error
}

func (s *Store) UserByID(id string) (*User, error) {
	var u User
	if err := s.DB.First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateJob(j *Job) error {
	return s.DB.Create(j).Error
}

func (s *Store) JobByID(id string) (*Job, error) {
	var j Job
	if err := s.DB.Preload("Applications").First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

// JobsByEmployer lists an employer's postings, newest first, applicant
// sub-lists included.
func (s *Store) JobsByEmployer(employerID string) ([]Job, error) {
	var jobs []Job
	err := s.DB.Preload("Applications").
		Where("employer_id = ?", employerID).
		Order("created_at desc").
		Find(&jobs).Error
	return jobs, err
}

// OpenJobs lists postings specialists can still apply to.
func (s *Store) OpenJobs() ([]Job, error) {
	var jobs []Job
	err := s.DB.Where("status = ?", "OPEN").
		Order("created_at desc").
		Find(&jobs).Error
	return jobs, err
}

// JobsAppliedBy lists the jobs a specialist has applied to.
func (s *Store) JobsAppliedBy(specialistID string) ([]Job, error) {
	var jobs []Job
	err := s.DB.Preload("Applications").
		Joins("JOIN applications ON applications.job_id = jobs.id").
		Where("applications.specialist_id = ?", specialistID).
		Order("jobs.created_at desc").
		Find(&jobs).Error
	return jobs, err
}

// Apply records an application. Applying twice to the same job is a no-op.
func (s *Store) Apply(jobID, specialistID, notes string) error {
	app := Application{JobID: jobID, SpecialistID: specialistID}
	return s.DB.Where(app).
		Attrs(Application{Notes: notes, AppliedAt: time.Now()}).
		FirstOrCreate(&app).Error
}

var ErrNotApplied = errors.New("specialist has not applied to this job")

// Accept assigns the specialist to the job and closes it for further
// applications. The specialist must have applied first.
func (s *Store) Accept(jobID, specialistID string) error {
	var count int64
	if err := s.DB.Model(&Application{}).
		Where("job_id = ? AND specialist_id = ?", jobID, specialistID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotApplied
	}

	now := time.Now()
	return s.DB.Model(&Job{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"status":        "IN_PROGRESS",
			"specialist_id": specialistID,
			"start_date":    now,
		}).Error
}
