package domain

import "fmt"

// FetchError indicates a transport failure or a non-success status from one
// of the external services. The pipeline performs no retries; a FetchError
// aborts the remainder of the run.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }
