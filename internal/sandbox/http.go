package sandbox

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"karyab/client/internal/models"
)

const tokenTTL = 24 * time.Hour

// respond wraps a payload in the { data, message } envelope the dashboards
// unwrap.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

type handlers struct {
	store  *Store
	secret []byte
}

// loginRequest creates the account on first login, so a sandbox session
// needs no separate signup step.
type loginRequest struct {
	Username    string `json:"username" binding:"required"`
	UserType    string `json:"userType" binding:"required"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	Phone       string `json:"phone"`
	Job         string `json:"job"`
	Experience  int    `json:"experience"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "username and userType are required")
		return
	}
	if req.UserType != userTypeEmployer && req.UserType != userTypeSpecialist {
		respondError(c, http.StatusBadRequest, "userType must be employer or specialist")
		return
	}

	user := &User{
		Username:    req.Username,
		Name:        req.Name,
		UserType:    req.UserType,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Job:         req.Job,
		Experience:  req.Experience,
	}
	if err := h.store.EnsureUser(user); err != nil {
		respondError(c, http.StatusInternalServerError, "could not create user")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(h.secret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not sign token")
		return
	}

	respond(c, http.StatusOK, gin.H{"token": signed, "user": h.profile(user)})
}

// auth validates the bearer token and stores the account on the context.
func (h *handlers) auth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		c.Abort()
		return
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.secret, nil
	})
	if err != nil || !token.Valid {
		respondError(c, http.StatusUnauthorized, "invalid token")
		c.Abort()
		return
	}
	claims, _ := token.Claims.(jwt.MapClaims)
	userID, _ := claims["user_id"].(string)

	user, err := h.store.UserByID(userID)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "unknown user")
		c.Abort()
		return
	}

	c.Set("user", user)
	c.Next()
}

func currentUser(c *gin.Context) *User {
	u, _ := c.MustGet("user").(*User)
	return u
}

func (h *handlers) me(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"user": h.profile(currentUser(c))})
}

func (h *handlers) myJobs(c *gin.Context) {
	user := currentUser(c)
	if user.UserType != userTypeEmployer {
		respondError(c, http.StatusForbidden, "employer account required")
		return
	}
	jobs, err := h.store.JobsByEmployer(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load jobs")
		return
	}
	respond(c, http.StatusOK, h.apiJobs(jobs))
}

func (h *handlers) availableJobs(c *gin.Context) {
	jobs, err := h.store.OpenJobs()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load jobs")
		return
	}
	respond(c, http.StatusOK, h.apiJobs(jobs))
}

func (h *handlers) myApplications(c *gin.Context) {
	user := currentUser(c)
	if user.UserType != userTypeSpecialist {
		respondError(c, http.StatusForbidden, "specialist account required")
		return
	}
	jobs, err := h.store.JobsAppliedBy(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load applications")
		return
	}
	respond(c, http.StatusOK, h.apiJobs(jobs))
}

func (h *handlers) createJob(c *gin.Context) {
	user := currentUser(c)
	if user.UserType != userTypeEmployer {
		respondError(c, http.StatusForbidden, "employer account required")
		return
	}

	var form models.JobForm
	if err := c.ShouldBindJSON(&form); err != nil || form.Title == "" {
		respondError(c, http.StatusBadRequest, "title is required")
		return
	}

	job := &Job{
		Title:       form.Title,
		Description: form.Description,
		JobType:     form.JobType,
		Budget:      form.Budget,
		City:        form.Location.City,
		Province:    form.Location.Province,
		EmployerID:  user.ID,
		CreatedAt:   time.Now(),
	}
	if err := h.store.CreateJob(job); err != nil {
		respondError(c, http.StatusInternalServerError, "could not create job")
		return
	}
	respond(c, http.StatusCreated, h.apiJob(*job))
}

func (h *handlers) apply(c *gin.Context) {
	user := currentUser(c)
	if user.UserType != userTypeSpecialist {
		respondError(c, http.StatusForbidden, "specialist account required")
		return
	}

	jobID := c.Param("id")
	job, err := h.store.JobByID(jobID)
	if err != nil {
		respondError(c, http.StatusNotFound, "job not found")
		return
	}
	if job.Status != models.JobStatusOpen {
		respondError(c, http.StatusConflict, "job is no longer open")
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&body)

	if err := h.store.Apply(jobID, user.ID, body.Notes); err != nil {
		respondError(c, http.StatusInternalServerError, "could not record application")
		return
	}

	job, err = h.store.JobByID(jobID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load job")
		return
	}
	respond(c, http.StatusOK, h.apiJob(*job))
}

func (h *handlers) accept(c *gin.Context) {
	user := currentUser(c)
	if user.UserType != userTypeEmployer {
		respondError(c, http.StatusForbidden, "employer account required")
		return
	}

	jobID := c.Param("id")
	specialistID := c.Param("specialistId")

	job, err := h.store.JobByID(jobID)
	if err != nil {
		respondError(c, http.StatusNotFound, "job not found")
		return
	}
	if job.EmployerID != user.ID {
		respondError(c, http.StatusForbidden, "not your job")
		return
	}

	if err := h.store.Accept(jobID, specialistID); err != nil {
		if errors.Is(err, ErrNotApplied) {
			respondError(c, http.StatusBadRequest, "specialist has not applied to this job")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not accept applicant")
		return
	}

	job, err = h.store.JobByID(jobID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load job")
		return
	}
	respond(c, http.StatusOK, h.apiJob(*job))
}

func (h *handlers) profile(u *User) models.Profile {
	return models.Profile{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		UserType:    models.Role(u.UserType),
		CompanyName: u.CompanyName,
		Phone:       u.Phone,
		Job:         u.Job,
		Experience:  u.Experience,
	}
}

func (h *handlers) userRef(id string) *models.UserRef {
	u, err := h.store.UserByID(id)
	if err != nil {
		return &models.UserRef{ID: id}
	}
	return &models.UserRef{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		CompanyName: u.CompanyName,
		Job:         u.Job,
		Phone:       u.Phone,
		Experience:  u.Experience,
	}
}

// apiJob shapes a stored job into the wire form the dashboards parse,
// expanding the employer, specialist and applicant references.
func (h *handlers) apiJob(j Job) models.Job {
	created := j.CreatedAt
	out := models.Job{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		JobType:     j.JobType,
		Budget:      j.Budget,
		Location:    models.Location{City: j.City, Province: j.Province},
		Status:      j.Status,
		CreatedAt:   &created,
		StartDate:   j.StartDate,
		Employer:    h.userRef(j.EmployerID),
	}
	if j.SpecialistID != nil {
		out.Specialist = h.userRef(*j.SpecialistID)
	}
	for _, app := range j.Applications {
		applied := app.AppliedAt
		out.Applicants = append(out.Applicants, models.Applicant{
			Specialist: *h.userRef(app.SpecialistID),
			Notes:      app.Notes,
			AppliedAt:  &applied,
		})
	}
	return out
}

func (h *handlers) apiJobs(jobs []Job) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, h.apiJob(j))
	}
	return out
}
