package api

import (
	"errors"
	"fmt"
)

// ErrUnreachable indicates the request never produced an HTTP response.
type ErrUnreachable struct {
	URL string
	Err error
}

func (e *ErrUnreachable) Error() string {
	return fmt.Sprintf("backend unreachable (%s): %v", e.URL, e.Err)
}

func (e *ErrUnreachable) Unwrap() error { return e.Err }

// ErrMisconfigured indicates the backend answered with something that is not
// the expected JSON document, usually a proxy or HTML error page.
type ErrMisconfigured struct {
	URL  string
	Body []byte
	Err  error
}

func (e *ErrMisconfigured) Error() string {
	return fmt.Sprintf("backend misconfigured (%s): %v", e.URL, e.Err)
}

func (e *ErrMisconfigured) Unwrap() error { return e.Err }

// ErrRejected indicates the backend understood the request and refused it,
// either with an HTTP error status or with success=false.
type ErrRejected struct {
	Status  int
	Message string
}

func (e *ErrRejected) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected request (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("backend rejected request (HTTP %d): %s", e.Status, e.Message)
}

// UserMessage renders err as text suitable for an alert. It distinguishes an
// unreachable backend from a misconfigured one.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var unreachable *ErrUnreachable
	if errors.As(err, &unreachable) {
		return "Cannot reach the exam server. Check your connection and try again."
	}

	var misconfigured *ErrMisconfigured
	if errors.As(err, &misconfigured) {
		return "The exam server is misconfigured: it did not return valid data."
	}

	var rejected *ErrRejected
	if errors.As(err, &rejected) {
		if rejected.Message != "" {
			return "The exam server refused the request: " + rejected.Message
		}
		return fmt.Sprintf("The exam server refused the request (HTTP %d).", rejected.Status)
	}

	return err.Error()
}
