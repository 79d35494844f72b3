package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/repositories/memory"
	"github.com/scholaris/resultportal/internal/bootstrap"
	"github.com/scholaris/resultportal/internal/config"
	"github.com/scholaris/resultportal/internal/seed"
)

type apiEnvelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

type testServer struct {
	router *gin.Engine
	deps   *bootstrap.Dependencies
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Mode = "production"
	cfg.Server.Port = "8080"
	cfg.Server.StoragePath = t.TempDir()
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTokenExpiration = "1h"
	cfg.JWT.Issuer = "resultportal-test"
	cfg.Auth.BcryptCost = 4
	cfg.Auth.ActivityPageSize = 100

	repos, store := memory.NewRepositories()
	deps, err := bootstrap.BuildDependencies(cfg, repos, zerolog.Nop())
	require.NoError(t, err)

	_, err = seed.EnsureAdmin(context.Background(), repos.AdminRepository, deps.PasswordVerifier,
		"admin@school.edu", "Ada Obi", "s3cret-pass")
	require.NoError(t, err)

	return &testServer{router: bootstrap.SetupRouter(cfg, deps, zerolog.Nop()), deps: deps, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env apiEnvelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, env apiEnvelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/auth/admin/login", "", gin.H{"email": "Admin@School.edu", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[dto.AdminLoginResponse](t, env).Token.AccessToken
}

func (s *testServer) createStudent(t *testing.T, token string) *models.Student {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/admin/students", token, gin.H{
		"studentId": "S002",
		"fullName":  "Jane Doe",
		"email":     "jane@example.com",
		"pin":       "4821",
		"class":     "JSS 2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[*models.Student](t, env)
}

func TestHealthAndPublicSettings(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, config.DriverMemory, health.Driver)

	w, env := s.do(t, http.MethodGet, "/settings/public", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	public := decode[dto.PublicSettingsResponse](t, env)
	assert.Equal(t, models.DefaultPrimaryColor, public.PrimaryColor)
	assert.Equal(t, models.TemplateModern, public.ResultTemplate)
}

func TestAdminLogin(t *testing.T) {
	s := newTestServer(t)

	t.Run("wrong password", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/auth/admin/login", "", gin.H{"email": "admin@school.edu", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, dto.ErrorCodeInvalidCredentials, env.Error.Code)
		assert.Equal(t, "Invalid credentials", env.Error.Message)
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/auth/admin/login", "", gin.H{"email": "ghost@school.edu", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", env.Error.Message)
	})

	t.Run("missing fields", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/auth/admin/login", "", gin.H{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/auth/admin/login", "", gin.H{"email": "admin@school.edu", "password": "s3cret-pass"})
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[dto.AdminLoginResponse](t, env)
		assert.NotEmpty(t, resp.Token.AccessToken)
		assert.Equal(t, "Bearer", resp.Token.TokenType)
		assert.Equal(t, "admin@school.edu", resp.Admin.Email)
		assert.NotNil(t, resp.Admin.LastLogin)
	})
}

func TestRoleSeparation(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	s.createStudent(t, admin)

	w, _ := s.do(t, http.MethodGet, "/admin/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := s.do(t, http.MethodPost, "/auth/student/login", "", gin.H{"studentId": "S002", "pin": "4821"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[dto.StudentLoginResponse](t, env)
	assert.Equal(t, "Jane Doe", login.Student.FullName)
	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &raw))
	assert.NotContains(t, raw["student"], "pin")

	w, _ = s.do(t, http.MethodGet, "/admin/students", login.Token.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodGet, "/portal/results", admin, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(t, http.MethodGet, "/auth/me", login.Token.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[dto.SessionResponse](t, env)
	assert.Equal(t, models.ActorStudent, me.ActorType)
	assert.Nil(t, me.Admin)
}

func TestStudentCRUD(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)
	student := s.createStudent(t, token)
	assert.Equal(t, "4821", student.PIN)

	w, env := s.do(t, http.MethodPost, "/admin/students", token, gin.H{
		"studentId": "S002", "fullName": "Someone Else", "class": "JSS 1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrorCodeResourceAlreadyExists, env.Error.Code)

	w, env = s.do(t, http.MethodGet, "/admin/students?search=jane", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.StudentListResponse](t, env)
	require.Len(t, list.Students, 1)
	assert.Equal(t, int64(1), list.Pagination.TotalItems)

	w, env = s.do(t, http.MethodPut, "/admin/students/"+student.ID, token, gin.H{
		"studentId": "S002", "fullName": "Jane A. Doe", "pin": "1111", "class": "JSS 3", "isActive": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Jane A. Doe", decode[*models.Student](t, env).FullName)

	w, env = s.do(t, http.MethodPost, "/admin/students/"+student.ID+"/reset-pin", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	pin := decode[dto.ResetPINResponse](t, env).PIN
	assert.Len(t, pin, 4)

	w, _ = s.do(t, http.MethodGet, "/admin/students/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/admin/students/"+student.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/admin/students/"+student.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResultLifecycleAndPortal(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	student := s.createStudent(t, admin)

	w, env := s.do(t, http.MethodPost, "/admin/results/preview", admin, gin.H{
		"subjects": []gin.H{{"name": "Maths", "score": "72"}, {"name": "English", "score": 91}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	preview := decode[dto.PreviewResponse](t, env)
	assert.Equal(t, 163.0, preview.TotalScore)
	assert.Equal(t, 81.5, preview.Average)

	w, env = s.do(t, http.MethodPost, "/admin/results", admin, gin.H{
		"studentId": student.ID, "term": "First Term", "session": "2024/2025",
		"subjects":   []gin.H{{"name": "Maths", "score": 72}, {"name": "English", "score": 91}},
		"totalScore": 999,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result := decode[*models.Result](t, env)
	assert.Equal(t, 163.0, result.TotalScore)
	assert.Equal(t, 81.5, result.Average)
	assert.Equal(t, models.GradeB, result.Subjects[0].Grade)
	assert.Equal(t, models.GradeAPlus, result.Subjects[1].Grade)

	w, env = s.do(t, http.MethodPost, "/admin/results", admin, gin.H{
		"studentId": student.ID, "term": "Fourth Term", "session": "2024/2025",
		"subjects": []gin.H{{"name": "Maths", "score": 50}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)

	w, env = s.do(t, http.MethodPost, "/auth/student/login", "", gin.H{"studentId": "S002", "pin": "4821"})
	require.Equal(t, http.StatusOK, w.Code)
	studentToken := decode[dto.StudentLoginResponse](t, env).Token.AccessToken

	w, env = s.do(t, http.MethodGet, "/portal/results", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[dto.PortalResultsResponse](t, env)
	require.Len(t, mine.Results, 1)
	assert.Equal(t, []string{"2024/2025"}, mine.Sessions)

	w, env = s.do(t, http.MethodGet, "/portal/results/"+result.ID+"/card", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	card := decode[models.ResultCard](t, env)
	assert.Equal(t, result.ID, card.Result.ID)
	assert.Equal(t, "S002", card.Student.StudentID)
	require.NotNil(t, card.Settings)

	w, _ = s.do(t, http.MethodGet, "/portal/results/"+uuid.NewString()+"/card", studentToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/admin/results/"+result.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/admin/results/"+result.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResetPINAndLogout(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	s.createStudent(t, admin)

	w, env := s.do(t, http.MethodPost, "/auth/student/reset-pin", "", gin.H{"studentId": "S002", "email": "wrong@example.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid student ID or email", env.Error.Message)

	w, env = s.do(t, http.MethodPost, "/auth/student/reset-pin", "", gin.H{"studentId": "S002", "email": "JANE@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	pin := decode[dto.ResetPINResponse](t, env).PIN

	w, _ = s.do(t, http.MethodPost, "/auth/student/login", "", gin.H{"studentId": "S002", "pin": "4821"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, env = s.do(t, http.MethodPost, "/auth/student/login", "", gin.H{"studentId": "S002", "pin": pin})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[dto.StudentLoginResponse](t, env).Token.AccessToken

	w, _ = s.do(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(t, http.MethodGet, "/portal/results", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeRevokedToken, env.Error.Code)

	w, env = s.do(t, http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeRevokedToken, env.Error.Code)
}

func TestStoreUnavailable(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	s.store.FailOn(memory.OpAppendActivity, assert.AnError)
	w, env := s.do(t, http.MethodPost, "/admin/students", token, gin.H{
		"studentId": "S009", "fullName": "Rolled Back", "class": "JSS 1",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, dto.ErrorCodeStoreUnavailable, env.Error.Code)

	s.store.FailOn(memory.OpAppendActivity, nil)
	w, env = s.do(t, http.MethodGet, "/admin/students", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[dto.StudentListResponse](t, env).Students)
}

func TestSettingsAndActivity(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	w, env := s.do(t, http.MethodPut, "/admin/settings", token, gin.H{
		"schoolName": "Bright Future Academy", "primaryColor": "#112233", "resultTemplate": "classic",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	settings := decode[*models.SchoolSettings](t, env)
	assert.Equal(t, models.TemplateClassic, settings.ResultTemplate)
	assert.Equal(t, models.DefaultSecondaryColor, settings.SecondaryColor)

	w, env = s.do(t, http.MethodPut, "/admin/settings", token, gin.H{"schoolName": "X", "primaryColor": "blue"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/settings/assets/logo", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var upload apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &upload))
	asset := decode[dto.AssetUploadResponse](t, upload)
	assert.Contains(t, asset.URL, "/uploads/branding/")

	w, env = s.do(t, http.MethodGet, "/admin/activity-logs?actorType=admin", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[dto.ActivityLogResponse](t, env)
	require.Len(t, logs.Logs, 3)
	assert.Equal(t, "update_settings", logs.Logs[1].Action)
	assert.Equal(t, models.ActionLogin, logs.Logs[2].Action)

	w, _ = s.do(t, http.MethodGet, "/admin/activity-logs?actorType=robot", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(t, http.MethodGet, "/admin/overview", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	overview := decode[models.Overview](t, env)
	assert.Equal(t, int64(3), overview.RecentActivity)
}
