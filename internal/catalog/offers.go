package catalog

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// loadOffers parses the partner offer feed. Partners deliver the feed as an
// XML document; see data/partner_offers.xml for the expected shape.
func loadOffers(path string) ([]PartnerOffer, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to read partner offer feed %s: %w", path, err)
	}

	elements := doc.FindElements("//Offers/Offer")
	if len(elements) == 0 {
		return nil, fmt.Errorf("partner offer feed %s contains no offers", path)
	}

	offers := make([]PartnerOffer, 0, len(elements))
	for _, el := range elements {
		offer, err := parseOffer(el)
		if err != nil {
			return nil, fmt.Errorf("partner offer feed %s: %w", path, err)
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

func parseOffer(el *etree.Element) (PartnerOffer, error) {
	offer := PartnerOffer{
		ID:                     el.SelectAttrValue("id", ""),
		Title:                  childText(el, "Title"),
		Provider:               childText(el, "Provider"),
		OfferType:              childText(el, "Type"),
		Summary:                childText(el, "Summary"),
		EligibilityExplanation: childText(el, "EligibilityExplanation"),
		CTA:                    childText(el, "CTA"),
		CTAURL:                 childText(el, "CTAURL"),
		Disclaimer:             childText(el, "Disclaimer"),
	}
	if offer.ID == "" {
		return PartnerOffer{}, fmt.Errorf("offer missing id attribute")
	}
	if offer.Title == "" || offer.OfferType == "" {
		return PartnerOffer{}, fmt.Errorf("offer %s missing title or type", offer.ID)
	}

	if aprText := childText(el, "APR"); aprText != "" {
		apr, err := strconv.ParseFloat(aprText, 64)
		if err != nil {
			return PartnerOffer{}, fmt.Errorf("offer %s: invalid APR %q", offer.ID, aprText)
		}
		offer.APR = apr
	}

	for _, b := range el.FindElements("Benefits/Benefit") {
		offer.Benefits = append(offer.Benefits, b.Text())
	}
	for _, t := range el.FindElements("PersonaTags/Tag") {
		offer.PersonaTags = append(offer.PersonaTags, t.Text())
	}
	for _, t := range el.FindElements("SignalTags/Tag") {
		offer.SignalTags = append(offer.SignalTags, t.Text())
	}

	if elig := el.FindElement("Eligibility"); elig != nil {
		rules, err := parseEligibility(offer.ID, elig)
		if err != nil {
			return PartnerOffer{}, err
		}
		offer.Eligibility = rules
	}
	return offer, nil
}

func parseEligibility(offerID string, el *etree.Element) (EligibilityRules, error) {
	var rules EligibilityRules

	var err error
	if rules.MinCreditUtilization, err = optFloat(el, "MinCreditUtilization"); err != nil {
		return rules, fmt.Errorf("offer %s: %w", offerID, err)
	}
	if rules.MaxCreditUtilization, err = optFloat(el, "MaxCreditUtilization"); err != nil {
		return rules, fmt.Errorf("offer %s: %w", offerID, err)
	}
	if rules.MinEmergencyFundMonths, err = optFloat(el, "MinEmergencyFundMonths"); err != nil {
		return rules, fmt.Errorf("offer %s: %w", offerID, err)
	}
	if rules.MaxEmergencyFundMonths, err = optFloat(el, "MaxEmergencyFundMonths"); err != nil {
		return rules, fmt.Errorf("offer %s: %w", offerID, err)
	}
	if rules.MinCreditScoreEstimate, err = optInt(el, "MinCreditScoreEstimate"); err != nil {
		return rules, fmt.Errorf("offer %s: %w", offerID, err)
	}
	if rules.MaxCreditScoreEstimate, err = optInt(el, "MaxCreditScoreEstimate"); err != nil {
		return rules, fmt.Errorf("offer %s: %w", offerID, err)
	}
	income, err := optInt64(el, "MinMonthlyIncome")
	if err != nil {
		return rules, fmt.Errorf("offer %s: %w", offerID, err)
	}
	rules.MinMonthlyIncome = income

	for _, t := range el.FindElements("RequiredAccountTypes/Type") {
		rules.RequiredAccountTypes = append(rules.RequiredAccountTypes, t.Text())
	}
	for _, t := range el.FindElements("ExcludedAccountSubtypes/Subtype") {
		rules.ExcludedAccountSubtypes = append(rules.ExcludedAccountSubtypes, t.Text())
	}
	for _, t := range el.FindElements("RequiredSignals/Signal") {
		rules.RequiredSignals = append(rules.RequiredSignals, t.Text())
	}
	for _, t := range el.FindElements("ExcludedSignals/Signal") {
		rules.ExcludedSignals = append(rules.ExcludedSignals, t.Text())
	}
	return rules, nil
}

func childText(el *etree.Element, tag string) string {
	if child := el.FindElement(tag); child != nil {
		return child.Text()
	}
	return ""
}

func optFloat(el *etree.Element, tag string) (*float64, error) {
	text := childText(el, tag)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", tag, text)
	}
	return &v, nil
}

func optInt(el *etree.Element, tag string) (*int, error) {
	text := childText(el, tag)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", tag, text)
	}
	return &v, nil
}

func optInt64(el *etree.Element, tag string) (*int64, error) {
	text := childText(el, tag)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", tag, text)
	}
	return &v, nil
}
