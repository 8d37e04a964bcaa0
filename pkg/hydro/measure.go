package hydro

import "strconv"

// Measure is a numeric attribute that may be undefined, such as a dam
// height that was never surveyed. The zero value is undefined.
type Measure struct {
	value   float64
	defined bool
}

// Undefined is the undefined Measure.
var Undefined Measure

// Some returns a defined Measure holding v.
func Some(v float64) Measure { return Measure{value: v, defined: true} }

// Get returns the value and whether it is defined.
func (m Measure) Get() (float64, bool) { return m.value, m.defined }

// Defined reports whether the measure holds a value.
func (m Measure) Defined() bool { return m.defined }

// Or returns the value, or def if the measure is undefined.
func (m Measure) Or(def float64) float64 {
	if !m.defined {
		return def
	}
	return m.value
}

// String formats the value, or "-" when undefined.
func (m Measure) String() string {
	if !m.defined {
		return "-"
	}
	return strconv.FormatFloat(m.value, 'g', -1, 64)
}
