package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swimto/poolsync/pkg/facilities"
)

func testCandidates() facilities.Facilities {
	return facilities.Facilities{
		{ID: "FAC001", Name: "High Park Pool", Address: "1873 Bloor St W", PostalCode: "M6R 2Z6"},
		{ID: "FAC002", Name: "Regent Park Aquatic Centre", Address: "640 Dundas St E", PostalCode: "M5A 2A2"},
		{ID: "FAC003", Name: "North Toronto Memorial Community Centre", PostalCode: "M4R 2H6"},
	}
}

func newMatcher(t *testing.T, opts ...Option) *Matcher {
	t.Helper()
	m, err := New(opts...)
	require.NoError(t, err)
	return m
}

func TestMatchExactName(t *testing.T) {
	m := newMatcher(t)

	got := m.Match("High Park Pool", Location{}, testCandidates())

	require.NotNil(t, got)
	assert.Equal(t, "FAC001", got.FacilityID)
	assert.Equal(t, 1.0, got.Confidence)
}

func TestMatchByPostalCode(t *testing.T) {
	m := newMatcher(t)

	// Name agreement plus exact postal carries the score over threshold.
	got := m.Match("High Park Pool", Location{PostalCode: "M6R 2Z6"}, testCandidates())

	require.NotNil(t, got)
	assert.Equal(t, "FAC001", got.FacilityID)
	assert.GreaterOrEqual(t, got.Confidence, 0.6)
}

func TestMatchPostalIgnoresSpacingAndCase(t *testing.T) {
	m := newMatcher(t)

	got := m.Match("High Park", Location{PostalCode: "m6r2z6"}, testCandidates())

	require.NotNil(t, got)
	assert.Equal(t, "FAC001", got.FacilityID)
}

func TestMatchUnmatchedBelowThreshold(t *testing.T) {
	m := newMatcher(t)

	assert.Nil(t, m.Match("Scarborough Village Rec", Location{}, testCandidates()))
	assert.Nil(t, m.Match("", Location{}, testCandidates()))
	assert.Nil(t, m.Match("High Park Pool", Location{}, nil))
}

func TestMatchDeterministic(t *testing.T) {
	cands := testCandidates()
	m := newMatcher(t)

	first := m.Match("Regent Park Aquatic", Location{}, cands)
	second := m.Match("Regent Park Aquatic", Location{}, cands)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.FacilityID, second.FacilityID)
	assert.Equal(t, first.Confidence, second.Confidence)
}

func TestResetDropsMemoizedResults(t *testing.T) {
	m := newMatcher(t)

	got := m.Match("High Park Pool", Location{}, testCandidates())
	require.NotNil(t, got)
	assert.Equal(t, "FAC001", got.FacilityID)

	// Without Reset the memoized hit would mask the new candidate list.
	swapped := facilities.Facilities{
		{ID: "FAC099", Name: "High Park Pool"},
	}
	m.Reset()
	got = m.Match("High Park Pool", Location{}, swapped)
	require.NotNil(t, got)
	assert.Equal(t, "FAC099", got.FacilityID)
}

func TestMatchTieGoesToEarlierCandidate(t *testing.T) {
	// Two candidates that score identically against the query.
	cands := facilities.Facilities{
		{ID: "A", Name: "Main Street Pool East"},
		{ID: "B", Name: "Main Street Pool West"},
	}
	m := newMatcher(t, WithThreshold(0.3))

	got := m.Match("Main Street Pool", Location{}, cands)

	require.NotNil(t, got)
	assert.Equal(t, "A", got.FacilityID)
}

func TestMatchDiacriticsFolded(t *testing.T) {
	cands := facilities.Facilities{
		{ID: "FAC010", Name: "Étienne Brûlé Pool"},
	}
	m := newMatcher(t)

	got := m.Match("Etienne Brule Pool", Location{}, cands)

	require.NotNil(t, got)
	assert.Equal(t, "FAC010", got.FacilityID)
	assert.Equal(t, 1.0, got.Confidence)
}

func TestMatchConfidenceAlwaysInRange(t *testing.T) {
	// Every signal firing at once pushes the raw composite past 1.0;
	// the reported confidence must stay clamped.
	cands := facilities.Facilities{
		{ID: "FAC001", Name: "High Park Outdoor Pool", Address: "1873 Bloor St W", PostalCode: "M6R 2Z6"},
	}
	m := newMatcher(t)

	got := m.Match("High Park Outdoor", Location{Address: "1873 Bloor St W", PostalCode: "M6R 2Z6"}, cands)

	require.NotNil(t, got)
	assert.LessOrEqual(t, got.Confidence, 1.0)
	assert.GreaterOrEqual(t, got.Confidence, 0.0)
}

func TestMatchAddressEvidence(t *testing.T) {
	cands := facilities.Facilities{
		{ID: "FAC020", Name: "Community Recreation Centre", Address: "25 Queen St"},
		{ID: "FAC021", Name: "Community Recreation Centre", Address: "900 King Rd"},
	}
	m := newMatcher(t, WithThreshold(0.3))

	got := m.Match("Community Rec Centre", Location{Address: "900 King Rd"}, cands)

	require.NotNil(t, got)
	assert.Equal(t, "FAC021", got.FacilityID, "address evidence should break the name tie")
}

func TestWithThresholdValidation(t *testing.T) {
	_, err := New(WithThreshold(1.5))
	assert.Error(t, err)

	_, err = New(WithThreshold(-0.1))
	assert.Error(t, err)
}

func TestWithWeightsValidation(t *testing.T) {
	_, err := New(WithWeights(Weights{Name: -1}))
	assert.Error(t, err)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"High Park Pool", "high park pool"},
		{"  HIGH   PARK  ", "high park"},
		{"St. Lawrence C.C.", "st lawrence c c"},
		{"Étienne Brûlé", "etienne brule"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeName(tt.in), tt.in)
	}
}

func TestJaccard(t *testing.T) {
	a := tokenSet("high park pool")
	b := tokenSet("high park outdoor pool")

	assert.InDelta(t, 0.75, jaccard(a, b), 1e-9)
	assert.Equal(t, 1.0, jaccard(a, a))
	assert.Zero(t, jaccard(a, tokenSet("")))
}
