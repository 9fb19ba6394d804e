package domain

import "fmt"

// EmptyInputError reports that one of the run's input collections was empty
// or unavailable. The run produces no output.
type EmptyInputError struct {
	Collection string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no %s available for reconciliation", e.Collection)
}

// MalformedRecordError reports a record missing a required field or failing a
// type or range invariant. The whole run is rejected; partial reconciliation
// is financially misleading.
type MalformedRecordError struct {
	Kind   string // "client order" or "broker fill"
	ID     string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s %q: %s", e.Kind, e.ID, e.Reason)
}

// InvariantViolationError reports a failed post-condition on a run's result
// set. It indicates an engine bug and aborts the run with full context.
type InvariantViolationError struct {
	GroupKey string
	TradeID  string
	OrderID  string
	Detail   string
}

func (e *InvariantViolationError) Error() string {
	msg := "reconciliation invariant violated"
	if e.GroupKey != "" {
		msg += " in group " + e.GroupKey
	}
	if e.TradeID != "" {
		msg += fmt.Sprintf(" (trade %s)", e.TradeID)
	}
	if e.OrderID != "" {
		msg += fmt.Sprintf(" (order %s)", e.OrderID)
	}
	return msg + ": " + e.Detail
}
