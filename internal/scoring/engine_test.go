package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homematch/internal/preference"
)

func unit(a preference.Axis) preference.Vector {
	var v preference.Vector
	v.Set(a, 1)
	return v
}

func TestScore_RanksByWeightedAxis(t *testing.T) {
	a := Neighborhood{ID: uuid.New(), Name: "A", Features: unit(preference.Cultural)}
	b := Neighborhood{ID: uuid.New(), Name: "B", Features: unit(preference.Religiosity)}

	pref := preference.NeutralVector()
	pref.Set(preference.Cultural, 0.9)
	pref.Set(preference.Religiosity, 0.1)

	matches := NewEngine().Score(pref, []Neighborhood{b, a})

	require.Len(t, matches, 2)
	assert.Equal(t, "A", matches[0].Neighborhood.Name)
	assert.Equal(t, 1, matches[0].Rank)
	assert.Equal(t, "B", matches[1].Neighborhood.Name)
	assert.Equal(t, 2, matches[1].Rank)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestScore_SingleNeighborhoodIsDotWithNormalized(t *testing.T) {
	n := Neighborhood{Features: preference.Vector{0.2, 0.4, 0.6, 0.8, 1, 0, 0.3, 0.5, 0.7, 0.9, 0.1}}
	pref := preference.Vector{0.9, 0.1, 0.5, 0.5, 0.5, 0.8, 0.5, 0.6, 0.5, 0.9, 0.2}

	matches := NewEngine().Score(pref, []Neighborhood{n})

	require.Len(t, matches, 1)
	assert.InDelta(t, n.Features.Dot(pref.Normalize()), matches[0].Score, 1e-12)
}

func TestScore_RankingIsScaleInvariant(t *testing.T) {
	ns := []Neighborhood{
		{Name: "n1", Features: preference.Vector{0.1, 0.9, 0.3, 0.2, 0.4, 0.5, 0.6, 0.1, 0.3, 0.2, 0.9}},
		{Name: "n2", Features: preference.Vector{0.8, 0.2, 0.3, 0.6, 0.4, 0.5, 0.1, 0.7, 0.3, 0.9, 0.1}},
		{Name: "n3", Features: preference.Vector{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}},
	}
	pref := preference.Vector{0.9, 0.1, 0.5, 0.7, 0.5, 0.5, 0.2, 0.8, 0.5, 0.9, 0.1}

	names := func(ms []Match) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.Neighborhood.Name
		}
		return out
	}

	e := NewEngine()
	base := names(e.Score(pref, ns))
	for _, k := range []float64{0.01, 0.5, 3, 250} {
		assert.Equal(t, base, names(e.Score(pref.Scale(k), ns)), "k=%v", k)
	}
}

func TestScore_TiesKeepInputOrder(t *testing.T) {
	ns := []Neighborhood{{Name: "first"}, {Name: "second"}, {Name: "third"}}

	matches := NewEngine().Score(preference.NeutralVector(), ns)

	assert.Equal(t, "first", matches[0].Neighborhood.Name)
	assert.Equal(t, "second", matches[1].Neighborhood.Name)
	assert.Equal(t, "third", matches[2].Neighborhood.Name)
}

func TestScore_Empty(t *testing.T) {
	assert.Empty(t, NewEngine().Score(preference.NeutralVector(), nil))
}

func TestScore_MatchPercent(t *testing.T) {
	n := Neighborhood{Features: preference.NeutralVector()}
	matches := NewEngine().Score(preference.NeutralVector(), []Neighborhood{n})
	assert.Equal(t, 50.0, matches[0].MatchPercent)
}

func TestTop(t *testing.T) {
	ms := []Match{{Rank: 1}, {Rank: 2}, {Rank: 3}}
	assert.Len(t, Top(ms, 2), 2)
	assert.Len(t, Top(ms, 5), 3)
	assert.Len(t, Top(ms, 0), 3)
}

func TestQualityFor(t *testing.T) {
	tests := []struct {
		importance, score float64
		want              Quality
	}{
		{0.9, 0.8, QualityExcellent},
		{0.9, 0.6, QualityGood},
		{0.9, 0.41, QualityGood},
		{0.9, 0.4, QualityPoor},
		{0.9, 0, QualityPoor},
		{0.7, 1, QualityNeutral},
		{0.2, 0.1, QualityNeutral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QualityFor(tt.importance, tt.score), "importance=%v score=%v", tt.importance, tt.score)
	}
}

func TestExplain_MissingAxesAreNeutral(t *testing.T) {
	pref := preference.NeutralVector()
	pref.Set(preference.Safety, 0.9)
	pref.Set(preference.Parks, 0.8)

	n := Neighborhood{
		Features: preference.Vector{},
		Missing:  []preference.Axis{preference.Safety},
	}
	n.Features.Set(preference.Parks, 0.9)

	explanation := NewEngine().Explain(pref, n)
	require.Len(t, explanation, preference.NumAxes)

	assert.Equal(t, 0.5, explanation[preference.Safety].Score)
	assert.Equal(t, QualityGood, explanation[preference.Safety].Quality)
	assert.Equal(t, QualityExcellent, explanation[preference.Parks].Quality)
	assert.Equal(t, QualityNeutral, explanation[preference.Nightlife].Quality)

	// the stored zero is still what the dot product sees
	score := NewEngine().Score(pref, []Neighborhood{n})[0].Score
	assert.InDelta(t, 0.9*pref.Normalize().Get(preference.Parks), score, 1e-12)

	strengths, concerns := Highlights(explanation)
	assert.Equal(t, []preference.Axis{preference.Parks}, strengths)
	assert.Empty(t, concerns)
}
