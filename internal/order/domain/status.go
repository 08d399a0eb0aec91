package domain

// Status is the order lifecycle state. Transitions only ever move forward:
// pending branches to paymentProcessed or paymentFailed, and only
// paymentProcessed can reach deliveryStarted.
type Status string

const (
	StatusPending          Status = "pending"
	StatusPaymentProcessed Status = "paymentProcessed"
	StatusPaymentFailed    Status = "paymentFailed"
	StatusDeliveryStarted  Status = "deliveryStarted"
)

var transitions = map[Status][]Status{
	StatusPending:          {StatusPaymentProcessed, StatusPaymentFailed},
	StatusPaymentProcessed: {StatusDeliveryStarted},
}

// CanTransitionTo reports whether next is a legal forward transition from s.
// A status never transitions to itself; stores treat that case as a no-op.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaymentProcessed, StatusPaymentFailed, StatusDeliveryStarted:
		return true
	}
	return false
}

// Terminal reports whether no further transition can leave s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}
