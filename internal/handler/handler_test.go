package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spendsense/spendsense/internal/models"
	"github.com/spendsense/spendsense/internal/recommend"
	"github.com/spendsense/spendsense/internal/repository"
	"github.com/spendsense/spendsense/internal/service"
	"github.com/spendsense/spendsense/internal/signals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	assignments []models.PersonaAssignment
}

func (s *stubStore) LoadWindow(_ context.Context, userID string, _ int) ([]models.Account, []models.Transaction, error) {
	if userID != "user_1" {
		return nil, nil, fmt.Errorf("no accounts for user %s: %w", userID, repository.ErrUserNotFound)
	}
	accounts := []models.Account{{
		ID:      "acc_card",
		UserID:  userID,
		Type:    models.AccountTypeCredit,
		Subtype: models.SubtypeCreditCard,
		Balance: 850000,
		Limit:   1000000,
		APR:     24.0,
	}}
	return accounts, nil, nil
}

func (s *stubStore) AppendPersonaAssignment(_ context.Context, a *models.PersonaAssignment) error {
	s.assignments = append(s.assignments, *a)
	return nil
}

func (s *stubStore) ListPersonaAssignments(_ context.Context, userID string, _ int) ([]models.PersonaAssignment, error) {
	if userID != "user_1" {
		return nil, fmt.Errorf("user %s: %w", userID, repository.ErrUserNotFound)
	}
	return s.assignments, nil
}

func (s *stubStore) GetUserConsent(_ context.Context, userID string) (*bool, error) {
	if userID != "user_1" {
		return nil, fmt.Errorf("user %s: %w", userID, repository.ErrUserNotFound)
	}
	consent := true
	return &consent, nil
}

func (s *stubStore) ListUserIDs(_ context.Context) ([]string, error) {
	return []string{"user_1"}, nil
}

type stubSelector struct{}

func (stubSelector) SelectEducation(_ string, _ []string, _ int) []recommend.EducationRecommendation {
	return []recommend.EducationRecommendation{}
}

func (stubSelector) SelectOffers(_ string, _ signals.BehaviorSignals, _ []models.Account, _ []string, _ int) []recommend.OfferRecommendation {
	return []recommend.OfferRecommendation{}
}

func newTestRouter() *mux.Router {
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := &stubStore{}
	svc := service.NewService(store, signals.NewComputer(store, log), stubSelector{},
		recommend.NewGenerator(log), nil, log, 3)
	h := NewHandler(svc, log)

	r := mux.NewRouter()
	r.HandleFunc("/insights/{user_id}", h.GetInsights).Methods(http.MethodGet)
	r.HandleFunc("/personas/{user_id}/history", h.GetPersonaHistory).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	return r
}

func doRequest(t *testing.T, router *mux.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetInsights_OK(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/insights/user_1?window=30")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp service.InsightsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "high_utilization", resp.PersonaType)
	assert.NotNil(t, resp.Rationale)
	assert.NotEmpty(t, resp.Disclaimer)
}

func TestGetInsights_DefaultWindow(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/insights/user_1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetInsights_InvalidWindowValue(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/insights/user_1?window=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetInsights_UnsupportedWindow(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/insights/user_1?window=45")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetInsights_UnknownUser(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/insights/user_9")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPersonaHistory(t *testing.T) {
	router := newTestRouter()

	// Classifying once seeds the history.
	rec := doRequest(t, router, "/insights/user_1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, "/personas/user_1/history?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var history []models.PersonaAssignment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "high_utilization", history[0].PersonaType)
	assert.Equal(t, "30d", history[0].Window)
}

func TestGetPersonaHistory_BadLimit(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/personas/user_1/history?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
