package preference

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// Axis is one neighborhood feature dimension.
type Axis int

const (
	Cultural Axis = iota
	Religiosity
	Communality
	Kindergardens
	Maintenance
	Mobility
	Parks
	Peaceful
	Shopping
	Safety
	Nightlife

	NumAxes = 11
)

// Neutral is the value every axis starts from.
const Neutral = 0.5

var axisNames = [NumAxes]string{
	"cultural_level",
	"religiosity_level",
	"communality_level",
	"kindergardens_level",
	"maintenance_level",
	"mobility_level",
	"parks_level",
	"peaceful_level",
	"shopping_level",
	"safety_level",
	"nightlife_level",
}

func (a Axis) String() string {
	if a < 0 || int(a) >= NumAxes {
		return fmt.Sprintf("axis(%d)", int(a))
	}
	return axisNames[a]
}

// Axes lists every axis in vector order.
func Axes() []Axis {
	out := make([]Axis, NumAxes)
	for i := range out {
		out[i] = Axis(i)
	}
	return out
}

// ParseAxis accepts the column name, e.g. "safety_level".
func ParseAxis(name string) (Axis, bool) {
	for i, n := range axisNames {
		if n == name {
			return Axis(i), true
		}
	}
	return 0, false
}

// Vector holds one value per axis, in axis order.
type Vector [NumAxes]float64

// NeutralVector returns a vector with every axis at Neutral.
func NeutralVector() Vector {
	var v Vector
	for i := range v {
		v[i] = Neutral
	}
	return v
}

// FromSlice copies up to NumAxes values; missing trailing axes stay zero.
func FromSlice[T float32 | float64](values []T) Vector {
	var v Vector
	for i := 0; i < NumAxes && i < len(values); i++ {
		v[i] = float64(values[i])
	}
	return v
}

func (v Vector) Get(a Axis) float64 { return v[a] }

func (v *Vector) Set(a Axis, value float64) { v[a] = value }

// Raise keeps the larger of the current and given value.
func (v *Vector) Raise(a Axis, value float64) { v[a] = math.Max(v[a], value) }

// Lower keeps the smaller of the current and given value.
func (v *Vector) Lower(a Axis, value float64) { v[a] = math.Min(v[a], value) }

// Clamp bounds every component to [0,1].
func (v Vector) Clamp() Vector {
	for i := range v {
		v[i] = math.Max(0, math.Min(1, v[i]))
	}
	return v
}

func (v Vector) Sum() float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

// Normalize scales the vector so its components sum to 1. A vector summing
// to zero normalizes to equal weights.
func (v Vector) Normalize() Vector {
	sum := v.Sum()
	if sum <= 0 {
		var u Vector
		for i := range u {
			u[i] = 1.0 / NumAxes
		}
		return u
	}
	for i := range v {
		v[i] /= sum
	}
	return v
}

func (v Vector) Dot(o Vector) float64 {
	var s float64
	for i := range v {
		s += v[i] * o[i]
	}
	return s
}

func (v Vector) Scale(k float64) Vector {
	for i := range v {
		v[i] *= k
	}
	return v
}

// Float32s converts to the pgvector element type.
func (v Vector) Float32s() []float32 {
	out := make([]float32, NumAxes)
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

// Named returns the vector keyed by axis name.
func (v Vector) Named() map[string]float64 {
	out := make(map[string]float64, NumAxes)
	for i, x := range v {
		out[axisNames[i]] = x
	}
	return out
}

// MarshalJSON encodes the vector as an object keyed by axis name.
func (v Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Named())
}

func (v *Vector) UnmarshalJSON(data []byte) error {
	var named map[string]float64
	if err := json.Unmarshal(data, &named); err != nil {
		return fmt.Errorf("decode preference vector: %w", err)
	}
	out := NeutralVector()
	for name, x := range named {
		if a, ok := ParseAxis(name); ok {
			out[a] = x
		}
	}
	*v = out
	return nil
}
