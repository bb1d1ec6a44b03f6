// Package catalog loads the static content and partner-offer catalogs. Both
// are read once at startup and immutable for the process lifetime; a missing
// or malformed file is a fatal configuration error, never a per-request one.
package catalog

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EducationItem is one curated piece of educational content.
type EducationItem struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Summary     string   `yaml:"summary" json:"summary"`
	Body        string   `yaml:"body" json:"body"`
	CTA         string   `yaml:"cta" json:"cta"`
	Source      string   `yaml:"source" json:"source"`
	PersonaTags []string `yaml:"persona_tags" json:"-"`
	SignalTags  []string `yaml:"signal_tags" json:"-"`
}

// EligibilityRules are the AND-combined requirements on a partner offer.
// Nil pointers mean the bound is not specified.
type EligibilityRules struct {
	MinCreditUtilization    *float64 `json:"min_credit_utilization,omitempty"`
	MaxCreditUtilization    *float64 `json:"max_credit_utilization,omitempty"`
	MinCreditScoreEstimate  *int     `json:"min_credit_score_estimate,omitempty"`
	MaxCreditScoreEstimate  *int     `json:"max_credit_score_estimate,omitempty"`
	MinMonthlyIncome        *int64   `json:"min_monthly_income,omitempty"`
	RequiredAccountTypes    []string `json:"required_account_types,omitempty"`
	ExcludedAccountSubtypes []string `json:"excluded_account_subtypes,omitempty"`
	RequiredSignals         []string `json:"required_signals,omitempty"`
	ExcludedSignals         []string `json:"excluded_signals,omitempty"`
	MinEmergencyFundMonths  *float64 `json:"min_emergency_fund_months,omitempty"`
	MaxEmergencyFundMonths  *float64 `json:"max_emergency_fund_months,omitempty"`
}

// PartnerOffer is one product offer from the partner feed.
type PartnerOffer struct {
	ID                     string           `json:"id"`
	Title                  string           `json:"title"`
	Provider               string           `json:"provider"`
	OfferType              string           `json:"offer_type"`
	APR                    float64          `json:"apr"`
	Summary                string           `json:"summary"`
	Benefits               []string         `json:"benefits"`
	EligibilityExplanation string           `json:"eligibility_explanation"`
	CTA                    string           `json:"cta"`
	CTAURL                 string           `json:"cta_url"`
	Disclaimer             string           `json:"disclaimer"`
	PersonaTags            []string         `json:"-"`
	SignalTags             []string         `json:"-"`
	Eligibility            EligibilityRules `json:"-"`
}

// Catalog holds both catalogs. Safe for concurrent reads without locking.
type Catalog struct {
	education []EducationItem
	offers    []PartnerOffer
}

// New builds a catalog from already-parsed entries.
func New(education []EducationItem, offers []PartnerOffer) *Catalog {
	return &Catalog{education: education, offers: offers}
}

// Load reads the education catalog (YAML) and the partner offer feed (XML).
func Load(contentPath, offersPath string, log *logrus.Logger) (*Catalog, error) {
	education, err := loadEducation(contentPath)
	if err != nil {
		return nil, err
	}
	offers, err := loadOffers(offersPath)
	if err != nil {
		return nil, err
	}
	log.Infof("Loaded catalogs: %d education items, %d partner offers", len(education), len(offers))
	return &Catalog{education: education, offers: offers}, nil
}

// Education returns the education catalog entries in file order.
func (c *Catalog) Education() []EducationItem {
	return c.education
}

// Offers returns the partner offers in feed order.
func (c *Catalog) Offers() []PartnerOffer {
	return c.offers
}

func loadEducation(path string) ([]EducationItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content catalog: %w", err)
	}

	var doc struct {
		Education []EducationItem `yaml:"education"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse content catalog %s: %w", path, err)
	}
	if len(doc.Education) == 0 {
		return nil, fmt.Errorf("content catalog %s contains no education items", path)
	}
	for _, item := range doc.Education {
		if item.ID == "" || item.Title == "" {
			return nil, fmt.Errorf("content catalog %s: item missing id or title", path)
		}
	}
	return doc.Education, nil
}
