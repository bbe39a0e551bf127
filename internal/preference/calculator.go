package preference

import (
	"strings"

	"homematch/internal/questionnaire"
)

// Answer keys read by the rule table.
const (
	KeyHousingPurpose        = "housing_purpose"
	KeyImportanceOfSafety    = "importance_of_safety"
	KeyImportanceOfQuiet     = "importance_of_quiet"
	KeyPublicTransport       = "public_transport_importance"
	KeyHasChildren           = "has_children"
	KeyReligiousCommunity    = "religious_community"
	KeyMaintenanceImportance = "maintenance_importance"
	KeyProximityToShopping   = "proximity_to_shopping"
	KeyProximityToParks      = "proximity_to_parks"
	KeyCulturalActivities    = "cultural_activities_importance"
	KeyCommunityInvolvement  = "community_involvement"
	KeyKindergartenProximity = "kindergarten_proximity"
	KeyCarOwnership          = "car_ownership"
	KeyNightlifeProximity    = "nightlife_proximity"
)

// Housing purposes recognized by the persona rules.
const (
	PersonaFamily    = "With family (and children)"
	PersonaSingle    = "Alone"
	PersonaCouple    = "As a couple"
	PersonaRoommates = "With roommates"
)

const (
	answerYes             = "yes"
	answerNo              = "no"
	answerAsFarAsPossible = "as far as possible"
)

var weights = map[string]float64{
	"very important":       0.9,
	"important":            0.7,
	"somewhat important":   0.5,
	"not very important":   0.3,
	"not important":        0.2,
	"not important at all": 0.1,
	"walking distance":     0.9,
	"short drive":          0.6,
	"doesn't matter":       0.3,
	"yes":                  0.8,
	"no":                   0.2,
	"maybe":                0.5,
	"very":                 0.9,
	"moderately":           0.6,
	"slightly":             0.4,
	"not at all":           0.1,
	"as close as possible": 0.9,
	"nearby is fine":       0.6,
	"as far as possible":   0.1,
}

// Weight maps a qualitative answer to [0.1, 0.9]. Unknown values are Neutral.
func Weight(answer string) float64 {
	if w, ok := weights[normalize(answer)]; ok {
		return w
	}
	return Neutral
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// rule reads one answer key and adjusts the vector. value is the scalar
// answer, or the first element of a list answer.
type rule struct {
	key   string
	apply func(v *Vector, value string)
}

func raiseBy(a Axis) func(v *Vector, value string) {
	return func(v *Vector, value string) { v.Raise(a, Weight(value)) }
}

var basicRules = []rule{
	{key: KeyImportanceOfSafety, apply: raiseBy(Safety)},
	{key: KeyImportanceOfQuiet, apply: raiseBy(Peaceful)},
	{key: KeyPublicTransport, apply: raiseBy(Mobility)},
	{key: KeyHasChildren, apply: func(v *Vector, value string) {
		if normalize(value) == answerYes {
			v.Raise(Kindergardens, 0.8)
			v.Raise(Parks, 0.7)
		}
	}},
	// religiosity follows the answer both ways
	{key: KeyReligiousCommunity, apply: func(v *Vector, value string) {
		v.Set(Religiosity, Weight(value))
	}},
	{key: KeyMaintenanceImportance, apply: raiseBy(Maintenance)},
}

var dynamicRules = []rule{
	{key: KeyProximityToShopping, apply: raiseBy(Shopping)},
	{key: KeyProximityToParks, apply: raiseBy(Parks)},
	{key: KeyCulturalActivities, apply: raiseBy(Cultural)},
	{key: KeyCommunityInvolvement, apply: raiseBy(Communality)},
	{key: KeyKindergartenProximity, apply: raiseBy(Kindergardens)},
	{key: KeyCarOwnership, apply: func(v *Vector, value string) {
		if normalize(value) == answerNo {
			v.Raise(Mobility, 0.8)
		}
	}},
	{key: KeyNightlifeProximity, apply: func(v *Vector, value string) {
		if normalize(value) == answerAsFarAsPossible {
			v.Raise(Peaceful, 0.9)
			v.Lower(Nightlife, 0.1)
			v.Lower(Cultural, 0.4)
			return
		}
		v.Raise(Nightlife, Weight(value))
	}},
}

type personaAdjustment struct {
	axis  Axis
	value float64
}

var personas = map[string][]personaAdjustment{
	normalize(PersonaFamily): {
		{axis: Safety, value: 0.8},
		{axis: Kindergardens, value: 0.7},
		{axis: Parks, value: 0.6},
	},
	normalize(PersonaSingle): {
		{axis: Nightlife, value: 0.7},
		{axis: Cultural, value: 0.6},
		{axis: Mobility, value: 0.7},
	},
	normalize(PersonaCouple): {
		{axis: Cultural, value: 0.6},
		{axis: Peaceful, value: 0.6},
		{axis: Shopping, value: 0.6},
	},
	normalize(PersonaRoommates): {
		{axis: Nightlife, value: 0.7},
		{axis: Mobility, value: 0.7},
		{axis: Shopping, value: 0.6},
	},
}

// Calculator turns questionnaire answers into a preference vector. It is a
// pure function of the answers and safe for concurrent use.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate starts from NeutralVector and applies basic, dynamic and
// persona rules in that order. Most rules only raise an axis.
func (c *Calculator) Calculate(answers map[string]questionnaire.Answer) Vector {
	v := NeutralVector()

	for _, rules := range [][]rule{basicRules, dynamicRules} {
		for _, r := range rules {
			value, ok := answerValue(answers, r.key)
			if !ok {
				continue
			}
			r.apply(&v, value)
		}
	}

	if purpose, ok := answerValue(answers, KeyHousingPurpose); ok {
		for _, adj := range personas[normalize(purpose)] {
			v.Raise(adj.axis, adj.value)
		}
	}

	return v.Clamp()
}

// Persona returns the housing purpose that drives persona rules, if any.
func Persona(answers map[string]questionnaire.Answer) (string, bool) {
	purpose, ok := answerValue(answers, KeyHousingPurpose)
	if !ok {
		return "", false
	}
	if _, known := personas[normalize(purpose)]; !known {
		return "", false
	}
	return purpose, true
}

func answerValue(answers map[string]questionnaire.Answer, key string) (string, bool) {
	a, ok := answers[key]
	if !ok || !a.Truthy() {
		return "", false
	}
	return a.First()
}
