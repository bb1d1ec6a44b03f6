package catalog

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestLoad_Valid(t *testing.T) {
	cat, err := Load(
		filepath.Join("testdata", "content.yaml"),
		filepath.Join("testdata", "offers.xml"),
		testLogger())
	require.NoError(t, err)

	education := cat.Education()
	require.Len(t, education, 2)
	assert.Equal(t, "edu_one", education[0].ID)
	assert.Equal(t, "First Item", education[0].Title)
	assert.Equal(t, []string{"high_utilization"}, education[0].PersonaTags)
	assert.Equal(t, []string{"interest_charges", "high_utilization_50"}, education[0].SignalTags)

	offers := cat.Offers()
	require.Len(t, offers, 2)

	first := offers[0]
	assert.Equal(t, "offer_one", first.ID)
	assert.Equal(t, "balance_transfer_card", first.OfferType)
	assert.Equal(t, "Test Bank", first.Provider)
	assert.Zero(t, first.APR)
	assert.Equal(t, []string{"No annual fee", "Intro rate for 18 months"}, first.Benefits)
	assert.Equal(t, []string{"high_utilization"}, first.PersonaTags)

	rules := first.Eligibility
	require.NotNil(t, rules.MinCreditUtilization)
	assert.Equal(t, 30.0, *rules.MinCreditUtilization)
	require.NotNil(t, rules.MinCreditScoreEstimate)
	assert.Equal(t, 620, *rules.MinCreditScoreEstimate)
	require.NotNil(t, rules.MinMonthlyIncome)
	assert.Equal(t, int64(200000), *rules.MinMonthlyIncome)
	assert.Equal(t, []string{"credit"}, rules.RequiredAccountTypes)
	assert.Equal(t, []string{"overdue"}, rules.ExcludedSignals)
	assert.Nil(t, rules.MaxCreditUtilization)

	second := offers[1]
	assert.Equal(t, 4.0, second.APR)
	assert.Equal(t, EligibilityRules{}, second.Eligibility)
}

func TestLoad_MissingContentFile(t *testing.T) {
	_, err := Load(
		filepath.Join("testdata", "does_not_exist.yaml"),
		filepath.Join("testdata", "offers.xml"),
		testLogger())
	assert.Error(t, err)
}

func TestLoad_ContentMissingID(t *testing.T) {
	_, err := Load(
		filepath.Join("testdata", "content_missing_id.yaml"),
		filepath.Join("testdata", "offers.xml"),
		testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id or title")
}

func TestLoad_OfferBadAPR(t *testing.T) {
	_, err := Load(
		filepath.Join("testdata", "content.yaml"),
		filepath.Join("testdata", "offers_bad_apr.xml"),
		testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid APR")
}

func TestLoad_OfferMissingID(t *testing.T) {
	_, err := Load(
		filepath.Join("testdata", "content.yaml"),
		filepath.Join("testdata", "offers_missing_id.xml"),
		testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestLoad_ShippedCatalogs(t *testing.T) {
	cat, err := Load(
		filepath.Join("..", "..", "data", "content_catalog.yaml"),
		filepath.Join("..", "..", "data", "partner_offers.xml"),
		testLogger())
	require.NoError(t, err)
	assert.NotEmpty(t, cat.Education())
	assert.NotEmpty(t, cat.Offers())
}
