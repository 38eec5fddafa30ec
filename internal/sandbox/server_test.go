package sandbox_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karyab/client/internal/models"
	"karyab/client/internal/rest"
	"karyab/client/internal/sandbox"
)

func startSandbox(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sandbox.Open(":memory:")
	require.NoError(t, err)

	srv := sandbox.NewServer(store, []byte("test-secret"), zerolog.Nop())
	ts := httptest.NewServer(srv.Engine)
	t.Cleanup(ts.Close)
	return ts
}

func login(t *testing.T, ts *httptest.Server, body map[string]any) string {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/auth/login", "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			Token string         `json:"token"`
			User  models.Profile `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Data.Token)
	return out.Data.Token
}

func userID(t *testing.T, ts *httptest.Server, token string) string {
	t.Helper()
	profile, err := rest.NewClient(ts.URL+"/api", token, zerolog.Nop()).Me(context.Background())
	require.NoError(t, err)
	return profile.ID
}

// The sandbox is exercised through the same REST client the dashboards use,
// walking the whole hiring flow: post, browse, apply, accept.
func TestSandbox_HiringFlow(t *testing.T) {
	ts := startSandbox(t)
	ctx := context.Background()

	employerToken := login(t, ts, map[string]any{
		"username": "acme", "userType": "employer", "name": "Acme", "companyName": "Acme Oy",
	})
	specialistToken := login(t, ts, map[string]any{
		"username": "bob", "userType": "specialist", "name": "Bob", "job": "plumber",
	})

	employer := rest.NewClient(ts.URL+"/api", employerToken, zerolog.Nop())
	specialist := rest.NewClient(ts.URL+"/api", specialistToken, zerolog.Nop())

	employerProfile, err := employer.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployer, employerProfile.UserType)

	job, err := employer.CreateJob(ctx, models.JobForm{
		Title:    "Fix sink",
		Budget:   500,
		Location: models.Location{City: "Helsinki"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, job.ID)
	assert.Equal(t, models.JobStatusOpen, job.Status)

	available, err := specialist.AvailableJobs(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, job.ID, available[0].ID)

	require.NoError(t, specialist.Apply(ctx, job.ID, "I can start tomorrow"))

	mine, err := employer.MyJobs(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Len(t, mine[0].Applicants, 1)
	applicant := mine[0].Applicants[0].Specialist
	assert.Equal(t, "Bob", applicant.Name)
	assert.Equal(t, "plumber", applicant.Job)
	assert.True(t, mine[0].HasApplicant(applicant.ID))

	require.NoError(t, employer.Accept(ctx, job.ID, applicant.ID))

	applications, err := specialist.MyApplications(ctx)
	require.NoError(t, err)
	require.Len(t, applications, 1)
	assert.Equal(t, models.JobStatusInProgress, applications[0].Status)
	require.NotNil(t, applications[0].Specialist)
	assert.Equal(t, applicant.ID, applications[0].Specialist.ID)
}

func TestSandbox_RoleGates(t *testing.T) {
	ts := startSandbox(t)
	ctx := context.Background()

	specialistToken := login(t, ts, map[string]any{
		"username": "bob", "userType": "specialist",
	})
	specialist := rest.NewClient(ts.URL+"/api", specialistToken, zerolog.Nop())

	_, err := specialist.CreateJob(ctx, models.JobForm{Title: "nope"})
	var authErr *models.AuthError
	assert.ErrorAs(t, err, &authErr, "specialists cannot post jobs")

	_, err = specialist.MyJobs(ctx)
	assert.ErrorAs(t, err, &authErr)
}

func TestSandbox_RejectsBadTokens(t *testing.T) {
	ts := startSandbox(t)

	client := rest.NewClient(ts.URL+"/api", "not-a-jwt", zerolog.Nop())
	_, err := client.Me(context.Background())

	var authErr *models.AuthError
	assert.ErrorAs(t, err, &authErr)
}
