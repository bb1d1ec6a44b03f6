package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spendsense/spendsense/internal/guardrails"
	"github.com/spendsense/spendsense/internal/models"
	"github.com/spendsense/spendsense/internal/personas"
	"github.com/spendsense/spendsense/internal/recommend"
	"github.com/spendsense/spendsense/internal/signals"
)

// ErrInvalidWindow reports a window size outside the supported set.
var ErrInvalidWindow = errors.New("window_days must be 30 or 180")

// Store is the data collaborator consumed by the service.
type Store interface {
	LoadWindow(ctx context.Context, userID string, windowDays int) ([]models.Account, []models.Transaction, error)
	AppendPersonaAssignment(ctx context.Context, a *models.PersonaAssignment) error
	ListPersonaAssignments(ctx context.Context, userID string, limit int) ([]models.PersonaAssignment, error)
	GetUserConsent(ctx context.Context, userID string) (*bool, error)
	ListUserIDs(ctx context.Context) ([]string, error)
}

// RationaleSource renders persona and item explanations.
type RationaleSource interface {
	Generate(personaType string, confidence float64, sig signals.BehaviorSignals, userTags []string) (recommend.Rationale, error)
	ItemReason(personaType string, sig signals.BehaviorSignals, userTags []string) (string, error)
}

// Alerter notifies operators about guardrail violations.
type Alerter interface {
	SendToneViolationAlert(userID, personaType string, violations []string) error
}

// Selector ranks catalog content for a persona.
type Selector interface {
	SelectEducation(personaType string, userTags []string, limit int) []recommend.EducationRecommendation
	SelectOffers(personaType string, sig signals.BehaviorSignals, accounts []models.Account, userTags []string, limit int) []recommend.OfferRecommendation
}

// InsightsResponse is the result of one classify-and-recommend call.
type InsightsResponse struct {
	ConsentRequired bool                                `json:"consent_required"`
	PersonaType     string                              `json:"persona_type,omitempty"`
	Confidence      float64                             `json:"confidence,omitempty"`
	AssignedAt      time.Time                           `json:"assigned_at,omitempty"`
	Signals         *signals.BehaviorSignals            `json:"signals,omitempty"`
	Rationale       *recommend.Rationale                `json:"rationale,omitempty"`
	Education       []recommend.EducationRecommendation `json:"education_items"`
	Offers          []recommend.OfferRecommendation     `json:"offer_items"`
	Disclaimer      string                              `json:"disclaimer,omitempty"`
}

// Service handles business logic
type Service struct {
	store      Store
	computer   *signals.Computer
	selector   Selector
	rationales RationaleSource
	alerts     Alerter
	log        *logrus.Logger
	limit      int
}

// NewService initializes a new service. alerts may be nil when operator
// alerting is not configured.
func NewService(store Store, computer *signals.Computer, selector Selector, rationales RationaleSource, alerts Alerter, log *logrus.Logger, limit int) *Service {
	return &Service{
		store:      store,
		computer:   computer,
		selector:   selector,
		rationales: rationales,
		alerts:     alerts,
		log:        log,
		limit:      limit,
	}
}

// InsightsForUser resolves the user's consent from the store, then runs the
// full pipeline. This is the entry point the HTTP layer uses.
func (s *Service) InsightsForUser(ctx context.Context, userID string, windowDays int) (*InsightsResponse, error) {
	consent, err := s.store.GetUserConsent(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ClassifyAndRecommend(ctx, userID, windowDays, consent)
}

// ClassifyAndRecommend computes signals, assigns and logs a persona, and
// returns the guarded recommendation set. Absent consent suppresses all
// recommendation output without an error. Every call appends exactly one
// persona assignment record; records are never mutated.
func (s *Service) ClassifyAndRecommend(ctx context.Context, userID string, windowDays int, consent *bool) (*InsightsResponse, error) {
	if windowDays != 30 && windowDays != 180 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, windowDays)
	}

	if !guardrails.HasConsent(consent) {
		s.log.Infof("User %s has not consented; suppressing recommendations", userID)
		return &InsightsResponse{
			ConsentRequired: true,
			Education:       []recommend.EducationRecommendation{},
			Offers:          []recommend.OfferRecommendation{},
		}, nil
	}

	sig, accounts, err := s.computer.Compute(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}

	personaType, confidence := personas.Classify(sig)
	s.log.Infof("Assigned persona '%s' to user %s with confidence %.2f", personaType, userID, confidence)

	assignment, err := s.appendAssignment(ctx, userID, windowDays, personaType, confidence, sig)
	if err != nil {
		return nil, err
	}

	userTags := signals.ExtractTags(sig)

	resp := &InsightsResponse{
		PersonaType: personaType,
		Confidence:  confidence,
		AssignedAt:  assignment.AssignedAt,
		Signals:     &sig,
		Education:   []recommend.EducationRecommendation{},
		Offers:      []recommend.OfferRecommendation{},
		Disclaimer:  guardrails.Disclaimer,
	}

	// A tone violation blocks the persona rationale but not the rest of
	// the response; nothing partially validated ever leaves the service.
	rationale, err := s.rationales.Generate(personaType, confidence, sig, userTags)
	switch {
	case err == nil:
		resp.Rationale = &rationale
	case errors.Is(err, guardrails.ErrToneViolation):
		s.log.Warnf("Rationale suppressed for user %s: %v", userID, err)
		s.alertToneViolation(userID, personaType, err)
	default:
		return nil, err
	}

	for _, item := range s.selector.SelectEducation(personaType, userTags, s.limit) {
		reason, err := s.rationales.ItemReason(personaType, sig, userTags)
		if err != nil {
			if errors.Is(err, guardrails.ErrToneViolation) {
				s.log.Warnf("Education item %s dropped for user %s: %v", item.ID, userID, err)
				s.alertToneViolation(userID, personaType, err)
				continue
			}
			return nil, err
		}
		item.Reason = reason
		resp.Education = append(resp.Education, item)
	}

	resp.Offers = s.selector.SelectOffers(personaType, sig, accounts, userTags, s.limit)

	s.log.Infof("Generated %d education items and %d offers for user %s",
		len(resp.Education), len(resp.Offers), userID)
	return resp, nil
}

// PersonaHistory returns the user's past persona assignments, newest first.
func (s *Service) PersonaHistory(ctx context.Context, userID string, limit int) ([]models.PersonaAssignment, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListPersonaAssignments(ctx, userID, limit)
}

// RefreshAllPersonas reclassifies every user over the 180-day window and
// appends the assignments. Individual failures are logged and skipped so one
// bad user never stalls the batch.
func (s *Service) RefreshAllPersonas(ctx context.Context) error {
	ids, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return err
	}

	const batchWindow = 180
	refreshed := 0
	for _, userID := range ids {
		sig, _, err := s.computer.Compute(ctx, userID, batchWindow)
		if err != nil {
			s.log.Warnf("Batch refresh skipped user %s: %v", userID, err)
			continue
		}
		personaType, confidence := personas.Classify(sig)
		if _, err := s.appendAssignment(ctx, userID, batchWindow, personaType, confidence, sig); err != nil {
			s.log.Warnf("Batch refresh failed to record user %s: %v", userID, err)
			continue
		}
		refreshed++
	}

	s.log.Infof("Batch persona refresh complete: %d/%d users", refreshed, len(ids))
	return nil
}

func (s *Service) appendAssignment(ctx context.Context, userID string, windowDays int, personaType string, confidence float64, sig signals.BehaviorSignals) (*models.PersonaAssignment, error) {
	snapshot, err := json.Marshal(sig)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot signals: %w", err)
	}

	assignment := &models.PersonaAssignment{
		ID:          uuid.NewString(),
		UserID:      userID,
		Window:      fmt.Sprintf("%dd", windowDays),
		PersonaType: personaType,
		Confidence:  confidence,
		Signals:     snapshot,
		AssignedAt:  time.Now(),
	}
	if err := s.store.AppendPersonaAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *Service) alertToneViolation(userID, personaType string, violation error) {
	if s.alerts == nil {
		return
	}
	if err := s.alerts.SendToneViolationAlert(userID, personaType, []string{violation.Error()}); err != nil {
		s.log.Errorf("Failed to alert operator about tone violation: %v", err)
	}
}
