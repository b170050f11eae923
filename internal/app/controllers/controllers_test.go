package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silani/discipline/internal/app/models"
	"github.com/silani/discipline/internal/app/models/dto"
	"github.com/silani/discipline/internal/app/services"
	"github.com/silani/discipline/internal/middleware"
	"github.com/silani/discipline/internal/pkg/apperrors"
	"github.com/silani/discipline/internal/pkg/fonnte"
	"github.com/silani/discipline/internal/pkg/report"
)

const testActorID int64 = 9

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter returns an engine that authenticates every request as testActorID
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, testActorID)
		c.Next()
	})
	return r
}

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func int64Ptr(v int64) *int64 { return &v }

// Students

type fakeStudentService struct {
	created   services.StudentInput
	actor     *int64
	createErr error
	getErr    error
	listClass *int64
}

func (f *fakeStudentService) Create(_ context.Context, actorID *int64, in services.StudentInput) (*models.Student, error) {
	f.actor, f.created = actorID, in
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Student{ID: 1, NISN: in.NISN, Name: in.Name, Status: models.StatusActive}, nil
}

func (f *fakeStudentService) Get(_ context.Context, id int64) (*models.Student, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.Student{ID: id, Name: "Budi"}, nil
}

func (f *fakeStudentService) List(_ context.Context, classID *int64) ([]*models.Student, error) {
	f.listClass = classID
	return []*models.Student{{ID: 1}, {ID: 2}}, nil
}

func (f *fakeStudentService) Update(_ context.Context, _ *int64, id int64, in services.StudentInput) (*models.Student, error) {
	return &models.Student{ID: id, Name: in.Name}, nil
}

func (f *fakeStudentService) Delete(context.Context, *int64, int64) error { return nil }

func studentRoutes(svc StudentService) *gin.Engine {
	c := NewStudentController(svc)
	r := newTestRouter()
	r.POST("/students", c.CreateStudent)
	r.GET("/students", c.ListStudents)
	r.GET("/students/:id", c.GetStudent)
	r.PUT("/students/:id", c.UpdateStudent)
	r.DELETE("/students/:id", c.DeleteStudent)
	return r
}

func TestStudentController_Create(t *testing.T) {
	svc := &fakeStudentService{}
	r := studentRoutes(svc)

	w, env := doRequest(t, r, http.MethodPost, "/students", dto.StudentRequest{
		NISN:          "0051234567",
		Name:          "Budi Santoso",
		GuardianName:  "Santoso",
		GuardianPhone: "0812-3456-7890",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	require.NotNil(t, svc.actor)
	assert.Equal(t, testActorID, *svc.actor)
	assert.Equal(t, "0812-3456-7890", svc.created.GuardianPhone)

	var student models.Student
	require.NoError(t, json.Unmarshal(env.Data, &student))
	assert.Equal(t, models.StatusActive, student.Status)
}

func TestStudentController_CreateErrors(t *testing.T) {
	t.Run("invalid body", func(t *testing.T) {
		w, env := doRequest(t, studentRoutes(&fakeStudentService{}), http.MethodPost, "/students", `{"nisn":"1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)
	})

	t.Run("duplicate NISN", func(t *testing.T) {
		svc := &fakeStudentService{createErr: apperrors.ErrNISNAlreadyExists}
		w, _ := doRequest(t, studentRoutes(svc), http.MethodPost, "/students", dto.StudentRequest{
			NISN: "1", Name: "A", GuardianName: "B", GuardianPhone: "081234567890",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestStudentController_Get(t *testing.T) {
	w, _ := doRequest(t, studentRoutes(&fakeStudentService{}), http.MethodGet, "/students/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc := &fakeStudentService{getErr: apperrors.ErrStudentNotFound}
	w, env := doRequest(t, studentRoutes(svc), http.MethodGet, "/students/4", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "student not found", env.Error.Message)
}

func TestStudentController_ListByClass(t *testing.T) {
	svc := &fakeStudentService{}
	w, _ := doRequest(t, studentRoutes(svc), http.MethodGet, "/students?classId=3", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.listClass)
	assert.Equal(t, int64(3), *svc.listClass)
}

// Rules

type fakeRuleService struct {
	input     services.RuleInput
	deleteErr error
}

func (f *fakeRuleService) Create(_ context.Context, _ *int64, in services.RuleInput) (*models.Rule, error) {
	f.input = in
	return &models.Rule{ID: 1, Description: in.Description, Category: in.Category, Points: in.Points}, nil
}
func (f *fakeRuleService) Get(_ context.Context, id int64) (*models.Rule, error) {
	return &models.Rule{ID: id}, nil
}
func (f *fakeRuleService) List(context.Context) ([]*models.Rule, error) { return nil, nil }
func (f *fakeRuleService) Update(_ context.Context, _ *int64, id int64, in services.RuleInput) (*models.Rule, error) {
	return &models.Rule{ID: id, Points: in.Points}, nil
}
func (f *fakeRuleService) Delete(context.Context, *int64, int64) error { return f.deleteErr }

func TestRuleController(t *testing.T) {
	svc := &fakeRuleService{deleteErr: apperrors.ErrRuleInUse}
	c := NewRuleController(svc)
	r := newTestRouter()
	r.POST("/rules", c.CreateRule)
	r.DELETE("/rules/:id", c.DeleteRule)

	w, _ := doRequest(t, r, http.MethodPost, "/rules", dto.RuleRequest{Description: "Bolos", Category: "Sedang", Points: 15})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.RuleCategory("Sedang"), svc.input.Category)

	w, _ = doRequest(t, r, http.MethodPost, "/rules", dto.RuleRequest{Description: "Bolos", Category: "Fatal", Points: 15})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := doRequest(t, r, http.MethodDelete, "/rules/5", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrorCodeResourceInUse, env.Error.Code)
}

// Violations

type fakeViolationService struct {
	input       services.ViolationInput
	listStudent *int64
	listStatus  *models.ViolationStatus
	reportMonth *int
	summaryYear int
	result      *services.CreateViolationResult
	err         error
}

func (f *fakeViolationService) Create(_ context.Context, _ *int64, in services.ViolationInput) (*services.CreateViolationResult, error) {
	f.input = in
	return f.result, f.err
}
func (f *fakeViolationService) Get(_ context.Context, id int64) (*models.Violation, error) {
	return &models.Violation{ID: id}, f.err
}
func (f *fakeViolationService) List(_ context.Context, studentID *int64, status *models.ViolationStatus) ([]*models.ViolationDetail, error) {
	f.listStudent, f.listStatus = studentID, status
	return []*models.ViolationDetail{}, f.err
}
func (f *fakeViolationService) Search(context.Context, string) ([]*models.ViolationDetail, error) {
	return []*models.ViolationDetail{}, f.err
}
func (f *fakeViolationService) Report(_ context.Context, _, month *int, _ *models.ViolationStatus) ([]*models.ViolationDetail, error) {
	f.reportMonth = month
	return []*models.ViolationDetail{}, f.err
}
func (f *fakeViolationService) Summary(_ context.Context, year int) (*models.ViolationSummary, error) {
	f.summaryYear = year
	return &models.ViolationSummary{}, f.err
}
func (f *fakeViolationService) Update(_ context.Context, _ *int64, id int64, in services.ViolationInput) (*models.Violation, error) {
	f.input = in
	return &models.Violation{ID: id}, f.err
}
func (f *fakeViolationService) Delete(context.Context, *int64, int64) error { return f.err }

func violationRoutes(svc *fakeViolationService) *gin.Engine {
	c := NewViolationController(svc)
	c.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	r := newTestRouter()
	r.GET("/violations", c.ListViolations)
	r.POST("/violations", c.CreateViolation)
	r.GET("/violations/search", c.SearchViolations)
	r.GET("/violations/report", c.ViolationReport)
	r.GET("/violations/report/export", c.ExportViolationReport)
	r.GET("/violations/summary", c.ViolationSummary)
	r.GET("/violations/:id", c.GetViolation)
	r.PUT("/violations/:id", c.UpdateViolation)
	r.DELETE("/violations/:id", c.DeleteViolation)
	return r
}

const violationBody = `{"studentId":12,"ruleId":5,"status":"ditunda","occurredAt":"2025-03-14T07:30:00+07:00"}`

func TestViolationController_Create(t *testing.T) {
	svc := &fakeViolationService{result: &services.CreateViolationResult{
		Violation: &models.Violation{ID: 3, StudentID: int64Ptr(12)},
		Aggregate: services.Aggregate{StudentID: 12, Total: 30, Status: models.StatusWarning1, Found: true},
		Notification: services.NotificationOutcome{
			Target: "6281234567890",
			Sent:   true,
		},
	}}

	w, env := doRequest(t, violationRoutes(svc), http.MethodPost, "/violations", violationBody)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, testActorID, svc.input.OfficerID)
	assert.Equal(t, models.ViolationPending, svc.input.Status)
	assert.False(t, svc.input.OccurredAt.IsZero())

	var resp dto.CreateViolationResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 30, resp.TotalPoints)
	assert.Equal(t, models.StatusWarning1, resp.Status)
	assert.True(t, resp.Notification.Sent)
	assert.Equal(t, "6281234567890", resp.Notification.Target)
}

func TestViolationController_CreateKeepsExplicitOfficer(t *testing.T) {
	svc := &fakeViolationService{result: &services.CreateViolationResult{Violation: &models.Violation{ID: 1}}}
	body := `{"studentId":12,"officerId":2,"ruleId":5,"status":"selesai","occurredAt":"2025-03-14T07:30:00Z"}`

	w, _ := doRequest(t, violationRoutes(svc), http.MethodPost, "/violations", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(2), svc.input.OfficerID)
}

func TestViolationController_CreateErrors(t *testing.T) {
	w, _ := doRequest(t, violationRoutes(&fakeViolationService{}), http.MethodPost, "/violations",
		`{"studentId":12,"ruleId":5,"status":"done","occurredAt":"2025-03-14T07:30:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, violationRoutes(&fakeViolationService{}), http.MethodPost, "/violations",
		`{"studentId":12,"ruleId":5,"status":"ditunda"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc := &fakeViolationService{err: fmt.Errorf("error getting rule: %w", apperrors.ErrRuleNotFound)}
	w, _ = doRequest(t, violationRoutes(svc), http.MethodPost, "/violations", violationBody)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestViolationController_Reads(t *testing.T) {
	svc := &fakeViolationService{}
	r := violationRoutes(svc)

	w, _ := doRequest(t, r, http.MethodGet, "/violations?studentId=12&status=diproses", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.listStudent)
	assert.Equal(t, int64(12), *svc.listStudent)
	assert.Equal(t, models.ViolationInProgress, *svc.listStatus)

	w, _ = doRequest(t, r, http.MethodGet, "/violations/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, r, http.MethodGet, "/violations/search?term=budi", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, r, http.MethodGet, "/violations/report?year=2025&month=3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, *svc.reportMonth)

	w, _ = doRequest(t, r, http.MethodGet, "/violations/summary", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2025, svc.summaryYear)

	w, _ = doRequest(t, r, http.MethodGet, "/violations/summary?year=2024", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2024, svc.summaryYear)
}

func TestViolationController_Export(t *testing.T) {
	svc := &fakeViolationService{}
	r := violationRoutes(svc)

	req := httptest.NewRequest(http.MethodGet, "/violations/report/export?year=2025&month=3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "laporan_pelanggaran_2025_03.xlsx")
	assert.Equal(t, 3, *svc.reportMonth)
	assert.NotZero(t, w.Body.Len())

	w, _ = doRequest(t, r, http.MethodGet, "/violations/report/export", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestViolationController_UpdateDelete(t *testing.T) {
	svc := &fakeViolationService{}
	r := violationRoutes(svc)

	w, _ := doRequest(t, r, http.MethodPut, "/violations/3", violationBody)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), svc.input.RuleID)
	// the editor does not become the reporting officer
	assert.Zero(t, svc.input.OfficerID)

	svc.err = apperrors.ErrViolationNotFound
	w, _ = doRequest(t, r, http.MethodDelete, "/violations/3", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Activity logs

type fakeActivityLogService struct {
	search, activity string
	page, size       int
}

func (f *fakeActivityLogService) List(_ context.Context, search, activity string, page, size int) (*services.ActivityLogPage, error) {
	f.search, f.activity, f.page, f.size = search, activity, page, size
	return &services.ActivityLogPage{
		Items:      []*models.ActivityLog{{ID: 1, Activity: models.ActivityFonnte}},
		TotalItems: 41,
		Page:       page,
		Size:       size,
	}, nil
}

func TestActivityLogController_List(t *testing.T) {
	svc := &fakeActivityLogService{}
	c := NewActivityLogController(svc)
	r := newTestRouter()
	r.GET("/activity-logs", c.ListActivityLogs)

	w, env := doRequest(t, r, http.MethodGet, "/activity-logs?search=Budi&activity=fonnte&page=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Budi", svc.search)
	assert.Equal(t, "fonnte", svc.activity)
	assert.Equal(t, 2, svc.page)
	assert.Equal(t, 20, svc.size)

	var resp dto.ActivityLogListResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Len(t, resp.Logs, 1)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, int64(41), resp.Pagination.TotalItems)
}

// Devices

type fakeDeviceService struct {
	listErr error
	token   string
	otp     string
}

func (f *fakeDeviceService) List(context.Context) ([]fonnte.Device, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []fonnte.Device{{Device: "6281234567890", Token: "tok"}}, nil
}
func (f *fakeDeviceService) Overview(context.Context) ([]services.DeviceState, error) {
	return []services.DeviceState{}, nil
}
func (f *fakeDeviceService) Activate(_ context.Context, _, token string) (*fonnte.QRActivation, error) {
	f.token = token
	return &fonnte.QRActivation{QR: "data:image/png;base64,AAAA"}, nil
}
func (f *fakeDeviceService) Disconnect(_ context.Context, token string) (fonnte.Result, error) {
	f.token = token
	return fonnte.Succeeded(nil), nil
}
func (f *fakeDeviceService) Delete(_ context.Context, token, otp string) (fonnte.Result, error) {
	f.token, f.otp = token, otp
	return fonnte.Succeeded(nil), nil
}
func (f *fakeDeviceService) Status(_ context.Context, token string) (fonnte.Result, error) {
	f.token = token
	return fonnte.Succeeded(json.RawMessage(`{"device_status":"connect"}`)), nil
}
func (f *fakeDeviceService) Profile(_ context.Context, token string) (fonnte.Result, error) {
	f.token = token
	return fonnte.Failed("token invalid"), apperrors.NewGatewayError("token invalid")
}
func (f *fakeDeviceService) Account(context.Context) (fonnte.Result, error) {
	return fonnte.Succeeded(json.RawMessage(`{"name":"SILANI"}`)), nil
}

func deviceRoutes(svc DeviceService) *gin.Engine {
	c := NewDeviceController(svc)
	r := newTestRouter()
	r.GET("/devices", c.ListDevices)
	r.GET("/devices/overview", c.DeviceOverview)
	r.GET("/devices/account", c.AccountInfo)
	r.POST("/devices/activate", c.ActivateDevice)
	r.POST("/devices/disconnect", c.DisconnectDevice)
	r.POST("/devices/status", c.DeviceStatus)
	r.GET("/devices/:token", c.DeviceProfile)
	r.DELETE("/devices/:token", c.DeleteDevice)
	return r
}

func TestDeviceController(t *testing.T) {
	svc := &fakeDeviceService{}
	r := deviceRoutes(svc)

	w, _ := doRequest(t, r, http.MethodGet, "/devices", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := doRequest(t, r, http.MethodPost, "/devices/status", dto.DeviceTokenRequest{Token: "abc"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", svc.token)
	assert.JSONEq(t, `{"device_status":"connect"}`, string(env.Data))

	w, _ = doRequest(t, r, http.MethodPost, "/devices/activate", `{"device":"6281234567890"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doRequest(t, r, http.MethodGet, "/devices/xyz", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "token invalid", env.Error.Message)

	w, _ = doRequest(t, r, http.MethodGet, "/devices/account", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, r, http.MethodDelete, "/devices/tok-1", dto.DeleteDeviceRequest{OTP: "123456"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-1", svc.token)
	assert.Equal(t, "123456", svc.otp)

	w, _ = doRequest(t, r, http.MethodDelete, "/devices/tok-1", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	failing := deviceRoutes(&fakeDeviceService{listErr: apperrors.NewGatewayError("unauthorized")})
	w, _ = doRequest(t, failing, http.MethodGet, "/devices", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

// Health

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthController(t *testing.T) {
	r := gin.New()
	r.GET("/health", NewHealthController(fakePinger{}).Health)
	r.GET("/down", NewHealthController(fakePinger{err: errors.New("refused")}).Health)

	w, _ := doRequest(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, r, http.MethodGet, "/down", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
