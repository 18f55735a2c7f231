package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilaydaydemir/rei-prospect-finder/internal/model"
)

func TestScoreCandidate_NonProfileURLDropped(t *testing.T) {
	p := wholesalerProfile(t)

	// Text is a perfect match, but the URL gate runs first.
	cand := Candidate{
		URL:   "https://www.linkedin.com/company/acme-wholesale",
		Title: "Wholesaler in Texas",
		Text:  "acquisitions and dispositions",
	}

	assert.Nil(t, ScoreCandidate(p, cand, "Texas"))
}

func TestScoreCandidate_FullMatchScoresFiveHigh(t *testing.T) {
	p := wholesalerProfile(t)

	cand := Candidate{
		URL:   "https://www.linkedin.com/in/john-smith",
		Title: "John Smith - Wholesaler",
		Text:  "Off market acquisitions across Texas",
	}

	sc := ScoreCandidate(p, cand, "Texas")
	require.NotNil(t, sc)
	assert.Equal(t, 5, sc.Score)
	assert.Equal(t, model.ConfidenceHigh, sc.Confidence)
	assert.Equal(t, "Wholesaler", sc.RoleDetected)
}

func TestScoreCandidate_NegativeOnlyDropped(t *testing.T) {
	p := wholesalerProfile(t)

	cand := Candidate{
		URL:   "https://www.linkedin.com/in/guru-joe",
		Title: "Join my academy",
		Text:  "best real estate coaching program",
	}

	// coach hit only: score -3, dropped.
	assert.Nil(t, ScoreCandidate(p, cand, "Texas"))
}

func TestScoreCandidate_NegativeDoesNotStack(t *testing.T) {
	p := wholesalerProfile(t)

	// Keyword (+2) + role (+2) + geo (+1) with two negative terms: a single
	// -3 penalty leaves the score at 2, which is still kept.
	cand := Candidate{
		URL:   "https://www.linkedin.com/in/jane-doe",
		Title: "Jane Doe - Wholesaler coach and mentor",
		Text:  "wholesale real estate in Texas",
	}

	sc := ScoreCandidate(p, cand, "Texas")
	require.NotNil(t, sc)
	assert.Equal(t, 2, sc.Score)
	assert.Equal(t, model.ConfidenceMedium, sc.Confidence)
}

func TestScoreCandidate_KeywordDoesNotStack(t *testing.T) {
	p := wholesalerProfile(t)

	cand := Candidate{
		URL:  "https://www.linkedin.com/in/sam-lee",
		Text: "wholesaler doing acquisitions and dispositions off market",
	}

	sc := ScoreCandidate(p, cand, "")
	require.NotNil(t, sc)
	// One keyword bucket (+2) plus no role title in lowercased text
	// ("wholesaler" also matches the Wholesaler role title) — role matches
	// case-insensitively, so +2 role as well.
	assert.Equal(t, 4, sc.Score)
}

func TestScoreCandidate_RoleFirstMatchWins(t *testing.T) {
	p := wholesalerProfile(t)

	// Both "Acquisitions Manager" and "Dispositions Manager" occur; the
	// earlier list entry is recorded.
	cand := Candidate{
		URL:  "https://www.linkedin.com/in/pat-kim",
		Text: "acquisitions manager and dispositions manager",
	}

	sc := ScoreCandidate(p, cand, "")
	require.NotNil(t, sc)
	assert.Equal(t, "Acquisitions Manager", sc.RoleDetected)
}

func TestScoreCandidate_GeoMatchByState(t *testing.T) {
	p := wholesalerProfile(t)

	cand := Candidate{
		URL:  "https://www.linkedin.com/in/lee-park",
		Text: "wholesale real estate investor in texas",
	}

	withGeo := ScoreCandidate(p, cand, "Texas")
	require.NotNil(t, withGeo)

	withoutGeo := ScoreCandidate(p, cand, "")
	require.NotNil(t, withoutGeo)

	assert.Equal(t, withoutGeo.Score+1, withGeo.Score)
}

func TestScoreCandidate_ScoreOfOneDropped(t *testing.T) {
	p := wholesalerProfile(t)

	// Geo hit alone is +1, below the keep threshold.
	cand := Candidate{
		URL:  "https://www.linkedin.com/in/no-match",
		Text: "software engineer in Texas",
	}

	assert.Nil(t, ScoreCandidate(p, cand, "Texas"))
}

func TestScoreCandidate_NameFromSlug(t *testing.T) {
	p := wholesalerProfile(t)

	cand := Candidate{
		URL:  "https://www.linkedin.com/in/jane-doe-123?utm_source=ads",
		Text: "wholesaler acquisitions",
	}

	sc := ScoreCandidate(p, cand, "")
	require.NotNil(t, sc)
	assert.Equal(t, "Jane Doe 123", sc.FullName)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe-123", sc.CanonicalURL)
}

func TestScoreCandidate_CanonicalStripsPathAndQuery(t *testing.T) {
	p := wholesalerProfile(t)

	cand := Candidate{
		URL:  "https://linkedin.com/in/sam-r/details/experience/?trk=feed",
		Text: "wholesaler acquisitions",
	}

	sc := ScoreCandidate(p, cand, "")
	require.NotNil(t, sc)
	assert.Equal(t, "https://www.linkedin.com/in/sam-r", sc.CanonicalURL)
}

func TestCanonicalURL_FallbackToRaw(t *testing.T) {
	raw := "https://example.com/profile/jane"
	assert.Equal(t, raw, CanonicalURL(raw))
}

func TestExtractName_Fallbacks(t *testing.T) {
	assert.Equal(t, "Jane Doe", extractName("jane-doe", "ignored"))
	assert.Equal(t, "Some Title", extractName("", "Some Title"))
	assert.Equal(t, "Unknown", extractName("", ""))
}
