package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_French(t *testing.T) {
	c, err := New(French)
	require.NoError(t, err)
	assert.Equal(t, French, c.Lang())
	assert.Equal(t, "Or", c.T("tier.gold"))
	assert.Equal(t, "Forte hausse", c.T("trend.strong-positive"))
	assert.Equal(t, "Rapport de la Résolution des Plaintes", c.T("pdf.resolution.title"))
	assert.Equal(t, "Plainte n°42", c.T("pdf.complaint.title", 42))
	assert.Equal(t, "Taux global de résolution : 70.0%", c.T("pdf.resolution.global_rate", "70.0"))
}

func TestNew_ArabicFallsBackToFrench(t *testing.T) {
	c, err := New(Arabic)
	require.NoError(t, err)
	assert.Equal(t, "ذهبي", c.T("tier.gold"))
	assert.False(t, c.Has("pdf.resolution.title"))
	assert.Equal(t, "Rapport de la Résolution des Plaintes", c.T("pdf.resolution.title"))
}

func TestT_MissingKeyReturnsKey(t *testing.T) {
	assert.Equal(t, "no.such.key", Default().T("no.such.key"))
}

func TestParseLang(t *testing.T) {
	l, err := ParseLang("")
	require.NoError(t, err)
	assert.Equal(t, French, l)

	l, err = ParseLang(" AR ")
	require.NoError(t, err)
	assert.Equal(t, Arabic, l)

	_, err = ParseLang("en")
	assert.Error(t, err)

	_, err = New("en")
	assert.Error(t, err)
}

func TestCatalogs_ArabicKeysExistInFrench(t *testing.T) {
	fr := Default()
	ar, err := New(Arabic)
	require.NoError(t, err)
	for _, k := range ar.Keys() {
		assert.True(t, fr.Has(k), "arabic key %q missing from french catalog", k)
	}
}

func TestCatalogs_CoverEnumLabels(t *testing.T) {
	fr := Default()
	for _, k := range []string{
		"tier.gold", "tier.silver", "tier.bronze", "tier.default",
		"trend.strong-positive", "trend.positive", "trend.neutral", "trend.negative", "trend.strong-negative",
		"urgency.critical", "urgency.high", "urgency.medium", "urgency.low", "urgency.unclassified",
		"status.SUBMITTED", "status.IN_PROGRESS", "status.RESOLVED", "status.REJECTED",
		"band.excellent", "band.good", "band.fair", "band.poor",
	} {
		assert.True(t, fr.Has(k), k)
	}
}
