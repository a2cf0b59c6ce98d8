package policy

// ReadOnlyEnv is the environment variable that controls the access gate.
const ReadOnlyEnv = "CHECKLY_READ_ONLY"

// DeniedHint tells the caller how to lift the read-only restriction.
const DeniedHint = "Set " + ReadOnlyEnv + "=false to enable mutating operations"

// OutcomeDenied labels a mutating call refused by the gate.
const OutcomeDenied = "denied"

// AccessGate decides whether mutating operations may proceed. It is built
// once from configuration and never changes afterwards. The zero value is
// read-only.
type AccessGate struct {
	writable bool
}

// NewAccessGate creates a gate. A read-only gate denies every mutation.
func NewAccessGate(readOnly bool) AccessGate {
	return AccessGate{writable: !readOnly}
}

// ReadOnlyFromEnv interprets the raw value of CHECKLY_READ_ONLY. Only the
// literal "false" disables read-only mode; unset or any other value keeps it.
func ReadOnlyFromEnv(value string) bool {
	return value != "false"
}

// ReadOnly reports whether the gate denies mutations.
func (g AccessGate) ReadOnly() bool {
	return !g.writable
}

// AuthorizeMutation decides whether a mutating operation may proceed.
func (g AccessGate) AuthorizeMutation() Decision {
	if !g.writable {
		return Decision{
			Allowed: false,
			Denial: &Denial{
				Error: ErrReadOnly.Error() + ". Mutating operations are disabled.",
				Hint:  DeniedHint,
			},
		}
	}
	return Decision{Allowed: true}
}

// Decision is the outcome of an access check.
type Decision struct {
	Allowed bool
	Denial  *Denial
}

// Denial is the structured payload returned to the caller when a mutation
// is refused. It is a normal result, not a failure of the call.
type Denial struct {
	Error string `json:"error"`
	Hint  string `json:"hint"`
}
