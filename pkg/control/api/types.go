package api

import "github.com/pact-foundation/pact-mockserver/internal/matching"

// CreateResponse answers POST / once an instance has been started.
type CreateResponse struct {
	Port         int    `json:"port"`
	MockServerID string `json:"mockServerId"`
}

// InstanceListEntry is one element of the GET / listing.
type InstanceListEntry struct {
	ID                string `json:"id"`
	Port              int    `json:"port"`
	Provider          string `json:"provider"`
	VerificationState string `json:"verificationState"`
}

// StatusResponse answers GET /mockserver/{id}.
type StatusResponse struct {
	ID                string `json:"id"`
	Port              int    `json:"port"`
	Provider          string `json:"provider"`
	VerificationState string `json:"verificationState"`
}

// VerifyResponse answers POST /mockserver/{id}/verify.
type VerifyResponse struct {
	Matched    bool                `json:"matched"`
	Mismatches []matching.Mismatch `json:"mismatches,omitempty"`
}

// ErrorResponse is the body of any non-2xx control API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// VerificationState renders matched as the string the wire format uses.
func VerificationState(matched bool) string {
	if matched {
		return "verified"
	}
	return "pending"
}
