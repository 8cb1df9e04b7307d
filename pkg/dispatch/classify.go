// Package dispatch sends built requests to the registry and turns what comes
// back into an Outcome: the status band, a notice for the operator and the
// decoded body. Network failures are mapped to a NetworkError with a
// remediation hint.
package dispatch

import (
	"encoding/json"
	"fmt"
)

// Class is the band an HTTP status falls in.
type Class int

const (
	Informational Class = iota + 1
	Success
	Redirection
	Failure
)

// Classify returns the band of status.
func Classify(status int) Class {
	switch {
	case status < 200:
		return Informational
	case status < 300:
		return Success
	case status < 400:
		return Redirection
	default:
		return Failure
	}
}

func (c Class) String() string {
	switch c {
	case Informational:
		return "informational"
	case Success:
		return "success"
	case Redirection:
		return "redirection"
	case Failure:
		return "failure"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

func (c Class) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Notice returns the short and long operator-facing text for status.
func Notice(status int) (short, long string) {
	switch Classify(status) {
	case Informational:
		return fmt.Sprintf("Informational response (%d)", status),
			"The request was received but the registry has not finished processing it."
	case Success:
		return fmt.Sprintf("Request succeeded (%d)", status),
			"The registry accepted the request. The response body is shown below."
	case Redirection:
		return fmt.Sprintf("Redirected (%d)", status),
			"The registry redirected the request. Check that the base URL and API version are correct."
	default:
		return fmt.Sprintf("Request failed (%d)", status),
			"The registry rejected the request. Inspect the response body for the error details and check the payload and credentials."
	}
}
