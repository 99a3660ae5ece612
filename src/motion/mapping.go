package motion

// Mapping is a pure function from input position to output value, valid on
// one segment of a DirectionalMotionSpec. Mappings carry no state; two
// adjacent mappings should agree at their shared breakpoint position unless
// the spec deliberately introduces a jump.
type Mapping interface {
	// Map returns the output value for the given input position.
	Map(input float64) float64
}

// Identity maps every input to itself.
var Identity Mapping = identityMapping{}

type identityMapping struct{}

func (identityMapping) Map(input float64) float64 { return input }

// FixedMapping maps every input to a constant output value.
type FixedMapping struct {
	Value float64
}

func (m FixedMapping) Map(float64) float64 { return m.Value }

// Fixed returns a mapping that always produces value.
func Fixed(value float64) Mapping {
	return FixedMapping{Value: value}
}

// LinearMapping maps input to Factor*input + Offset.
type LinearMapping struct {
	Factor float64
	Offset float64
}

func (m LinearMapping) Map(input float64) float64 {
	return m.Factor*input + m.Offset
}

// Linear returns a mapping producing factor*input + offset.
func Linear(factor, offset float64) Mapping {
	return LinearMapping{Factor: factor, Offset: offset}
}
