package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karyab/client/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	return store
}

func seedUser(t *testing.T, store *Store, username, userType string) *User {
	t.Helper()
	u := &User{Username: username, Name: username, UserType: userType}
	require.NoError(t, store.EnsureUser(u))
	return u
}

func TestStore_EnsureUserIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	first := seedUser(t, store, "alice", userTypeEmployer)
	again := &User{Username: "alice", UserType: userTypeEmployer}
	require.NoError(t, store.EnsureUser(again))

	assert.Equal(t, first.ID, again.ID)
	assert.NotEmpty(t, first.ID)
}

func TestStore_JobLifecycle(t *testing.T) {
	store := openTestStore(t)
	employer := seedUser(t, store, "acme", userTypeEmployer)
	specialist := seedUser(t, store, "bob", userTypeSpecialist)

	job := &Job{Title: "Fix sink", Budget: 500, EmployerID: employer.ID}
	require.NoError(t, store.CreateJob(job))
	assert.Equal(t, models.JobStatusOpen, job.Status)

	open, err := store.OpenJobs()
	require.NoError(t, err)
	require.Len(t, open, 1)

	require.NoError(t, store.Apply(job.ID, specialist.ID, "note"))
	// Applying twice is a no-op, not an error.
	require.NoError(t, store.Apply(job.ID, specialist.ID, "other note"))

	got, err := store.JobByID(job.ID)
	require.NoError(t, err)
	require.Len(t, got.Applications, 1)
	assert.Equal(t, "note", got.Applications[0].Notes)

	applied, err := store.JobsAppliedBy(specialist.ID)
	require.NoError(t, err)
	require.Len(t, applied, 1)

	require.NoError(t, store.Accept(job.ID, specialist.ID))

	got, err = store.JobByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusInProgress, got.Status)
	require.NotNil(t, got.SpecialistID)
	assert.Equal(t, specialist.ID, *got.SpecialistID)
	require.NotNil(t, got.StartDate)

	// Closed jobs drop out of the open list.
	open, err = store.OpenJobs()
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestStore_AcceptRequiresApplication(t *testing.T) {
	store := openTestStore(t)
	employer := seedUser(t, store, "acme", userTypeEmployer)
	specialist := seedUser(t, store, "bob", userTypeSpecialist)

	job := &Job{Title: "Fix sink", EmployerID: employer.ID}
	require.NoError(t, store.CreateJob(job))

	err := store.Accept(job.ID, specialist.ID)
	assert.ErrorIs(t, err, ErrNotApplied)
}

func TestStore_JobsByEmployerNewestFirst(t *testing.T) {
	store := openTestStore(t)
	employer := seedUser(t, store, "acme", userTypeEmployer)
	other := seedUser(t, store, "globex", userTypeEmployer)

	require.NoError(t, store.CreateJob(&Job{Title: "first", EmployerID: employer.ID}))
	require.NoError(t, store.CreateJob(&Job{Title: "other", EmployerID: other.ID}))

	jobs, err := store.JobsByEmployer(employer.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "first", jobs[0].Title)
}
