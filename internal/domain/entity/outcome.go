package entity

// OutcomeKind classifies the result of a bridge call once decoded.
type OutcomeKind int

const (
	// OutcomeValue means the bridge resolved with a string.
	OutcomeValue OutcomeKind = iota
	// OutcomeNotString means the bridge resolved with null, nothing, or a
	// non-string JSON value.
	OutcomeNotString
	// OutcomeFailed means the bridge call itself returned an error.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeValue:
		return "value"
	case OutcomeNotString:
		return "not_string"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StringOutcome is the closed result of decoding a string-valued bridge call.
type StringOutcome struct {
	Kind  OutcomeKind
	Value string
	Err   error
}

// BatchEntry is one decoded entry of a batch price response.
type BatchEntry struct {
	Symbol string
	Value  string
	OK     bool
}
