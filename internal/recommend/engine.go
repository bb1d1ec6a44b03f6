// Package recommend selects and explains catalog content for an assigned
// persona: relevance scoring, offer eligibility filtering and rationale
// templating.
package recommend

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spendsense/spendsense/internal/catalog"
	"github.com/spendsense/spendsense/internal/models"
	"github.com/spendsense/spendsense/internal/signals"
)

// EducationRecommendation is a catalog item enriched with its computed
// relevance and a short data-citing reason. Neither is persisted.
type EducationRecommendation struct {
	catalog.EducationItem
	RelevanceScore int    `json:"relevance_score"` // 1-5
	Reason         string `json:"reason,omitempty"`
}

// OfferRecommendation is an eligible partner offer enriched with relevance.
type OfferRecommendation struct {
	catalog.PartnerOffer
	RelevanceScore int  `json:"relevance_score"` // 1-5
	EligibilityMet bool `json:"eligibility_met"`
}

// Engine scores the immutable catalog against a persona and signal tags.
type Engine struct {
	catalog *catalog.Catalog
	log     *logrus.Logger
}

// NewEngine initializes a relevance engine over a loaded catalog.
func NewEngine(cat *catalog.Catalog, log *logrus.Logger) *Engine {
	return &Engine{catalog: cat, log: log}
}

// relevance computes the raw [0,1] score: 0.5 for a persona match plus 0.1
// per overlapping signal tag, tag bonus capped at 0.5, total capped at 1.0.
func relevance(personaTags, itemSignalTags []string, personaType string, userTags []string) float64 {
	var score float64
	for _, p := range personaTags {
		if p == personaType {
			score += 0.5
			break
		}
	}

	matches := 0
	for _, t := range itemSignalTags {
		if signals.HasTag(userTags, t) {
			matches++
		}
	}
	bonus := float64(matches) * 0.1
	if bonus > 0.5 {
		bonus = 0.5
	}
	score += bonus

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// relevanceBucket converts a raw [0,1] score to the 1-5 scale.
func relevanceBucket(score float64) int {
	switch {
	case score < 0.2:
		return 1
	case score < 0.4:
		return 2
	case score < 0.6:
		return 3
	case score < 0.8:
		return 4
	default:
		return 5
	}
}

// SelectEducation scores every education item, drops zero scores, and
// returns the top limit items sorted by descending score. Equal scores are
// ordered by item ID so ranking never depends on catalog file order.
func (e *Engine) SelectEducation(personaType string, userTags []string, limit int) []EducationRecommendation {
	type scored struct {
		raw  float64
		item catalog.EducationItem
	}

	var candidates []scored
	for _, item := range e.catalog.Education() {
		raw := relevance(item.PersonaTags, item.SignalTags, personaType, userTags)
		if raw == 0 {
			continue
		}
		candidates = append(candidates, scored{raw: raw, item: item})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].raw != candidates[j].raw {
			return candidates[i].raw > candidates[j].raw
		}
		return candidates[i].item.ID < candidates[j].item.ID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]EducationRecommendation, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, EducationRecommendation{
			EducationItem:  c.item,
			RelevanceScore: relevanceBucket(c.raw),
		})
	}
	e.log.Debugf("Selected %d education items for persona %s", len(result), personaType)
	return result
}

// SelectOffers applies the eligibility filter to every partner offer, then
// scores and ranks the survivors the same way education items are ranked.
// Ineligible offers are dropped entirely, never partially shown.
func (e *Engine) SelectOffers(personaType string, sig signals.BehaviorSignals, accounts []models.Account, userTags []string, limit int) []OfferRecommendation {
	type scored struct {
		raw   float64
		offer catalog.PartnerOffer
	}

	var candidates []scored
	for _, offer := range e.catalog.Offers() {
		if !CheckEligibility(offer, sig, accounts, userTags, e.log) {
			continue
		}
		raw := relevance(offer.PersonaTags, offer.SignalTags, personaType, userTags)
		if raw == 0 {
			continue
		}
		candidates = append(candidates, scored{raw: raw, offer: offer})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].raw != candidates[j].raw {
			return candidates[i].raw > candidates[j].raw
		}
		return candidates[i].offer.ID < candidates[j].offer.ID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]OfferRecommendation, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, OfferRecommendation{
			PartnerOffer:   c.offer,
			RelevanceScore: relevanceBucket(c.raw),
			EligibilityMet: true,
		})
	}
	e.log.Debugf("Selected %d eligible offers for persona %s", len(result), personaType)
	return result
}
