package source

import "fmt"

// QueryError reports a failed fetch: unreachable store, rejected credentials,
// malformed query or a response the adapter could not interpret.
type QueryError struct {
	SensorID string
	Err      error
}

func (e *QueryError) Error() string {
	if e.SensorID == "" {
		return fmt.Sprintf("query failed: %v", e.Err)
	}
	return fmt.Sprintf("query for sensor %s failed: %v", e.SensorID, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
