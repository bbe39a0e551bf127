package scoring

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"homematch/internal/preference"
)

type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityPoor      Quality = "poor"
	QualityNeutral   Quality = "neutral"
)

const (
	importantThreshold = 0.7
	excellentThreshold = 0.6
	goodThreshold      = 0.4
)

// Neighborhood is a scoring candidate. Missing lists axes with no stored
// value; Features holds whatever was stored for them.
type Neighborhood struct {
	ID       uuid.UUID
	Name     string
	City     string
	Features preference.Vector
	Missing  []preference.Axis
}

// AxisMatch explains how one axis of a neighborhood meets the user's
// importance for it.
type AxisMatch struct {
	Axis       preference.Axis
	Importance float64
	Score      float64
	Quality    Quality
}

type Match struct {
	Neighborhood Neighborhood
	Rank         int
	Score        float64
	MatchPercent float64
}

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Score ranks neighborhoods by the dot product of their features with the
// L1-normalized preference vector. Equal scores keep input order.
func (e *Engine) Score(pref preference.Vector, neighborhoods []Neighborhood) []Match {
	weights := pref.Normalize()

	out := make([]Match, 0, len(neighborhoods))
	for _, n := range neighborhoods {
		s := n.Features.Dot(weights)
		out = append(out, Match{
			Neighborhood: n,
			Score:        s,
			MatchPercent: percent(s),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Top returns at most limit matches. A non-positive limit returns all of them.
func Top(matches []Match, limit int) []Match {
	if limit <= 0 || len(matches) <= limit {
		return matches
	}
	return matches[:limit]
}

// Explain rates every axis of n against the raw preference vector. Missing
// axes are compared as Neutral.
func (e *Engine) Explain(pref preference.Vector, n Neighborhood) []AxisMatch {
	missing := make(map[preference.Axis]bool, len(n.Missing))
	for _, a := range n.Missing {
		missing[a] = true
	}

	out := make([]AxisMatch, 0, preference.NumAxes)
	for _, a := range preference.Axes() {
		score := n.Features.Get(a)
		if missing[a] {
			score = preference.Neutral
		}
		importance := pref.Get(a)
		out = append(out, AxisMatch{
			Axis:       a,
			Importance: importance,
			Score:      score,
			Quality:    QualityFor(importance, score),
		})
	}
	return out
}

func QualityFor(importance, score float64) Quality {
	if importance <= importantThreshold {
		return QualityNeutral
	}
	switch {
	case score > excellentThreshold:
		return QualityExcellent
	case score > goodThreshold:
		return QualityGood
	default:
		return QualityPoor
	}
}

// Highlights splits an explanation into axes that match well and axes the
// user cares about that the neighborhood lacks.
func Highlights(matches []AxisMatch) (strengths, concerns []preference.Axis) {
	for _, m := range matches {
		switch m.Quality {
		case QualityExcellent:
			strengths = append(strengths, m.Axis)
		case QualityPoor:
			concerns = append(concerns, m.Axis)
		}
	}
	return strengths, concerns
}

func percent(score float64) float64 {
	return math.Round(score*1000) / 10
}
