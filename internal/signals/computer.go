package signals

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spendsense/spendsense/internal/models"
)

// Store is the read side of the data collaborator consumed by the computer.
type Store interface {
	LoadWindow(ctx context.Context, userID string, windowDays int) ([]models.Account, []models.Transaction, error)
}

// Computer orchestrates the four detectors into one BehaviorSignals
// aggregate. It is the only signal component that touches the store.
type Computer struct {
	store Store
	log   *logrus.Logger
}

// NewComputer initializes a signal computer.
func NewComputer(store Store, log *logrus.Logger) *Computer {
	return &Computer{store: store, log: log}
}

// Compute loads the user's window and runs every detector over it. The
// returned accounts are the same slice handed to the detectors, so callers
// can reuse them for eligibility checks without a second query.
func (c *Computer) Compute(ctx context.Context, userID string, windowDays int) (BehaviorSignals, []models.Account, error) {
	accounts, transactions, err := c.store.LoadWindow(ctx, userID, windowDays)
	if err != nil {
		return BehaviorSignals{}, nil, fmt.Errorf("failed to load window for user %s: %w", userID, err)
	}

	c.log.Debugf("Computing signals for user %s: %d accounts, %d transactions, %d-day window",
		userID, len(accounts), len(transactions), windowDays)

	sig := BehaviorSignals{
		Income:        AnalyzeIncome(transactions, windowDays),
		Savings:       AnalyzeSavings(accounts, transactions, windowDays),
		Credit:        AnalyzeCredit(accounts, transactions),
		Subscriptions: DetectSubscriptions(transactions, windowDays),
	}

	c.log.Infof("Computed signals for user %s: income=%s utilization=%.1f%% subscriptions=%d",
		userID, sig.Income.Frequency, sig.Credit.OverallUtilization, sig.Subscriptions.Count)
	return sig, accounts, nil
}
