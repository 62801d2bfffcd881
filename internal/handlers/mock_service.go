package handlers

import (
	"context"
	"net/http"
	"time"

	"focus_engine/internal/models"
	"focus_engine/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerID    int
	registerErr   error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastRegisterName   string
	lastRegisterSecret string
	lastPairingCode    string
	lastGenName        string
	lastGenSecret      string
	lastParseToken     string
}

func (m *mockAuth) RegisterDevice(_ context.Context, name, secret, pairingCode string) (int, error) {
	m.lastRegisterName = name
	m.lastRegisterSecret = secret
	m.lastPairingCode = pairingCode
	return m.registerID, m.registerErr
}
func (m *mockAuth) GenerateToken(_ context.Context, name, secret string) (string, error) {
	m.lastGenName = name
	m.lastGenSecret = secret
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockFocus struct {
	snapshot service.Snapshot
	// opState, when set, is what Start/Pause/Toggle/SetMode return instead of snapshot.Timer.
	opState *models.TimerState
	report  models.PostureReport
	status  models.PostureStatus

	stopSession *models.FocusSession
	stopErr     error
	setModeErr  error

	startCalled  int
	pauseCalled  int
	toggleCalled int
	stopCalled   int
	lastCategory models.Category
	lastMode     models.TimerMode
	lastFace     *models.LandmarkGroup
	observeCalls int
}

func (m *mockFocus) Start(_ context.Context, category models.Category) models.TimerState {
	m.startCalled++
	m.lastCategory = category
	return m.opResult()
}
func (m *mockFocus) Pause(context.Context) models.TimerState {
	m.pauseCalled++
	return m.opResult()
}
func (m *mockFocus) Toggle(context.Context) models.TimerState {
	m.toggleCalled++
	return m.opResult()
}
func (m *mockFocus) Stop(context.Context) (*models.FocusSession, error) {
	m.stopCalled++
	return m.stopSession, m.stopErr
}
func (m *mockFocus) Tick(context.Context, float64) (*models.FocusSession, error) {
	return nil, nil
}
func (m *mockFocus) ReconcileAfterForeground(context.Context, time.Time) (*models.FocusSession, error) {
	return nil, nil
}
func (m *mockFocus) SetMode(_ context.Context, mode models.TimerMode) (models.TimerState, error) {
	m.lastMode = mode
	return m.opResult(), m.setModeErr
}
func (m *mockFocus) opResult() models.TimerState {
	if m.opState != nil {
		return *m.opState
	}
	return m.snapshot.Timer
}
func (m *mockFocus) Observe(_ context.Context, face *models.LandmarkGroup) models.PostureStatus {
	m.observeCalls++
	m.lastFace = face
	return m.status
}
func (m *mockFocus) Snapshot() service.Snapshot          { return m.snapshot }
func (m *mockFocus) PostureReport() models.PostureReport { return m.report }

type mockRelay struct {
	submitted []models.CommandKind
	cmd       models.Command
	submitErr error
	slot      models.CommandSlot
	slotErr   error
}

func (m *mockRelay) Submit(_ context.Context, kind models.CommandKind) (models.Command, error) {
	m.submitted = append(m.submitted, kind)
	return m.cmd, m.submitErr
}
func (m *mockRelay) Poll(context.Context) (bool, error) { return false, nil }
func (m *mockRelay) Slot(context.Context) (models.CommandSlot, error) {
	return m.slot, m.slotErr
}

type mockSessions struct {
	list     []models.FocusSession
	session  *models.FocusSession
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastID   string
}

func (m *mockSessions) List(_ context.Context, f service.SessionFilter) ([]models.FocusSession, error) {
	m.lastFrom, m.lastTo = f.From, f.To
	return m.list, m.err
}
func (m *mockSessions) Get(_ context.Context, id string) (*models.FocusSession, error) {
	m.lastID = id
	return m.session, m.err
}

type mockEventLog struct {
	resp     []models.FocusEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.FocusEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockHost struct {
	state           models.TimerState
	foregroundCalls int
	foregroundErr   error
}

func (m *mockHost) Run(context.Context, time.Duration) {}
func (m *mockHost) Foreground(context.Context) (models.TimerState, error) {
	m.foregroundCalls++
	return m.state, m.foregroundErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
