package services

import "fmt"

// NotFoundError reports a reference to a document that does not exist. It is
// surfaced to the caller verbatim and must not be retried.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// PreconditionError reports an illegal transition attempt: wrong state, a
// missing required field, or an invalid action code. Rule names the violated
// rule so callers can surface it without parsing the message.
type PreconditionError struct {
	Rule    string
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed (%s): %s", e.Rule, e.Message)
}
