package holdem

// Phase represents where a table is in the hand lifecycle. Within a
// hand it only ever advances; StartHand resets it back to Preflop.
type Phase int

const (
	Waiting Phase = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

// String returns the lowercase phase name used on the wire.
func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// betting reports whether the phase is one of the four betting streets.
func (p Phase) betting() bool {
	return p >= Preflop && p <= River
}
