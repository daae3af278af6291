package fixture

// Class buckets a provider status code for filtering and display.
type Class int

const (
	ClassOther Class = iota
	ClassScheduled
	ClassLive
	ClassFinished
)

func (c Class) String() string {
	switch c {
	case ClassScheduled:
		return "scheduled"
	case ClassLive:
		return "live"
	case ClassFinished:
		return "finished"
	default:
		return "other"
	}
}

var classByStatus = map[string]Class{
	"FT":  ClassFinished,
	"AET": ClassFinished,
	"PEN": ClassFinished,

	"1H":   ClassLive,
	"2H":   ClassLive,
	"HT":   ClassLive,
	"ET":   ClassLive,
	"BT":   ClassLive,
	"P":    ClassLive,
	"LIVE": ClassLive,

	"NS":  ClassScheduled,
	"TBD": ClassScheduled,
}

// Classify maps a provider status code to its class. Total: codes outside
// the fixed tables classify as Other and render their raw code.
func Classify(code string) Class {
	return classByStatus[code]
}

func (f Fixture) Class() Class {
	return Classify(f.Fixture.Status.Short)
}

func (f Fixture) IsLive() bool {
	return f.Class() == ClassLive
}
