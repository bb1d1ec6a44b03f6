package recommend

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spendsense/spendsense/internal/catalog"
	"github.com/spendsense/spendsense/internal/models"
	"github.com/spendsense/spendsense/internal/signals"
)

// maxLegalAPR is the state-cap threshold above which a product is blocked
// outright, independent of any other rule.
const maxLegalAPR = 36.0

// Product types blocked as predatory regardless of eligibility rules.
var blockedOfferTypes = map[string]bool{
	"payday_loan": true,
	"title_loan":  true,
	"rent_to_own": true,
}

// IsPredatory reports whether an offer is a blocked predatory product. The
// block cannot be overridden by any other rule.
func IsPredatory(offer catalog.PartnerOffer) bool {
	if blockedOfferTypes[strings.ToLower(offer.OfferType)] {
		return true
	}
	return offer.APR > maxLegalAPR
}

// EstimateCreditScore maps credit utilization to an estimated score on a
// fixed piecewise-linear scale. Utilization drives roughly a third of real
// scoring models; this estimate exists only to gate offer eligibility.
func EstimateCreditScore(utilization float64) int {
	switch {
	case utilization <= 10:
		return int(850 - utilization*11) // 850 at 0%, 740 at 10%
	case utilization <= 30:
		return int(739 - (utilization-10)*3.45) // 739 at 10%, 670 at 30%
	case utilization <= 50:
		return int(669 - (utilization-30)*4.45) // 669 at 30%, 580 at 50%
	case utilization <= 75:
		return int(579 - (utilization-50)*3.16) // 579 at 50%, 500 at 75%
	default:
		score := int(500 - (utilization-75)*8)
		if score < 300 {
			score = 300
		}
		return score
	}
}

// estimateMonthlyIncome scales the average income payment to a monthly rate
// using the detected cadence. Unknown or variable cadence falls back to the
// conservative biweekly assumption.
func estimateMonthlyIncome(income signals.IncomeSignal) int64 {
	avg := float64(income.AverageAmount)
	switch income.Frequency {
	case signals.FrequencyWeekly:
		return int64(avg * 4.33)
	case signals.FrequencyBiweekly:
		return int64(avg * 2.17)
	case signals.FrequencyMonthly:
		return int64(avg)
	default:
		return int64(avg * 2)
	}
}

// CheckEligibility runs every rule for an offer. The predatory block comes
// first and is absolute; the remaining rules combine with AND logic, so one
// failed bound drops the offer.
func CheckEligibility(offer catalog.PartnerOffer, sig signals.BehaviorSignals, accounts []models.Account, userTags []string, log *logrus.Logger) bool {
	if IsPredatory(offer) {
		log.Warnf("Blocked predatory offer %s (type=%s apr=%.1f)", offer.ID, offer.OfferType, offer.APR)
		return false
	}

	rules := offer.Eligibility
	utilization := sig.Credit.OverallUtilization

	if rules.MinCreditUtilization != nil && utilization < *rules.MinCreditUtilization {
		return false
	}
	if rules.MaxCreditUtilization != nil && utilization > *rules.MaxCreditUtilization {
		return false
	}

	score := EstimateCreditScore(utilization)
	if rules.MinCreditScoreEstimate != nil && score < *rules.MinCreditScoreEstimate {
		return false
	}
	if rules.MaxCreditScoreEstimate != nil && score > *rules.MaxCreditScoreEstimate {
		return false
	}

	if rules.MinMonthlyIncome != nil {
		if estimateMonthlyIncome(sig.Income) < *rules.MinMonthlyIncome {
			return false
		}
	}

	if len(rules.RequiredAccountTypes) > 0 {
		types := make(map[string]bool, len(accounts))
		for _, acc := range accounts {
			types[acc.Type] = true
		}
		for _, required := range rules.RequiredAccountTypes {
			if !types[required] {
				return false
			}
		}
	}

	if len(rules.ExcludedAccountSubtypes) > 0 {
		subtypes := make(map[string]bool, len(accounts))
		for _, acc := range accounts {
			subtypes[acc.Subtype] = true
		}
		for _, excluded := range rules.ExcludedAccountSubtypes {
			if subtypes[excluded] {
				return false
			}
		}
	}

	for _, required := range rules.RequiredSignals {
		if !signals.HasTag(userTags, required) {
			return false
		}
	}
	for _, excluded := range rules.ExcludedSignals {
		if signals.HasTag(userTags, excluded) {
			return false
		}
	}

	months := sig.Savings.EmergencyFundMonths
	if rules.MinEmergencyFundMonths != nil && months < *rules.MinEmergencyFundMonths {
		return false
	}
	if rules.MaxEmergencyFundMonths != nil && months > *rules.MaxEmergencyFundMonths {
		return false
	}

	return true
}
