// backend/models/api_models.go
package models

// JobRequest is the expected JSON body for the /flight-data endpoint, as
// posted by the settlement pipeline's job trigger. PolicyID is optional:
// without it the adapter returns flight data only, with it the full claim
// decision is evaluated.
type JobRequest struct {
	JobRunID     string `json:"id"`
	FlightNumber string `json:"flightNumber"`
	Airline      string `json:"airline"`
	Date         string `json:"date,omitempty"` // "YYYY-MM-DD"
	PolicyID     string `json:"policyId,omitempty"`
}

// JobData is the payload section of a successful JobResponse.
type JobData struct {
	FlightNumber  string  `json:"flightNumber"`
	Airline       string  `json:"airline"`
	Status        string  `json:"status"`
	DelayMinutes  int     `json:"delayMinutes"`
	ActualArrival int64   `json:"actualArrival,omitempty"` // unix seconds
	Outcome       string  `json:"outcome,omitempty"`
	PayoutAmount  float64 `json:"payoutAmount"`
	Reason        string  `json:"reason,omitempty"`
	PolicyID      string  `json:"policyId,omitempty"`
}

// JobResponse is the envelope returned to the settlement pipeline. Every
// response carries the original JobRunID so the caller can correlate
// failures with requests. Status is empty on success, "indeterminate" when
// no reliable flight data was available (retryable, not an error), and
// "errored" for request/internal faults.
type JobResponse struct {
	JobRunID   string   `json:"jobRunID"`
	Data       *JobData `json:"data,omitempty"`
	Status     string   `json:"status,omitempty"`
	Error      string   `json:"error,omitempty"`
	Retryable  bool     `json:"retryable,omitempty"`
	StatusCode int      `json:"statusCode"`
}
