package sessions

// SwimType is the fixed classification assigned to every session.
type SwimType string

// The swim type taxonomy. Values are stable identifiers shared with the
// storage and presentation collaborators.
const (
	LaneSwim     SwimType = "LANE_SWIM"
	Aquafit      SwimType = "AQUAFIT"
	Recreational SwimType = "RECREATIONAL"
	AdultSwim    SwimType = "ADULT_SWIM"
	SeniorSwim   SwimType = "SENIOR_SWIM"
)

// SwimTypes lists every member of the taxonomy.
func SwimTypes() []SwimType {
	return []SwimType{LaneSwim, Aquafit, Recreational, AdultSwim, SeniorSwim}
}

// Valid reports whether the type is a member of the taxonomy.
func (t SwimType) Valid() bool {
	switch t {
	case LaneSwim, Aquafit, Recreational, AdultSwim, SeniorSwim:
		return true
	}
	return false
}

// Priority returns the domain ranking used when resolving schedule conflicts:
// dedicated lane time outranks instructed classes, which outrank restricted
// swims, which outrank generic recreational time. Unknown types rank last.
func (t SwimType) Priority() int {
	switch t {
	case LaneSwim:
		return 5
	case Aquafit:
		return 4
	case SeniorSwim:
		return 3
	case AdultSwim:
		return 2
	case Recreational:
		return 1
	}
	return 0
}

// String returns the stable identifier.
func (t SwimType) String() string { return string(t) }
