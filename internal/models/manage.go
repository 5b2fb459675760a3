package models

import "encoding/json"

// ConsentManageRequest is the operation descriptor the gateway-facing layer
// hands to the manage dispatcher.
type ConsentManageRequest struct {
	Method       string
	ClientID     string
	OrgID        string
	ResourcePath string
	Payload      json.RawMessage
	Headers      map[string]string
}

// ConsentManageResponse carries the outcome of a manage operation back to the
// transport layer. Payload is nil for operations without a body (revoke).
type ConsentManageResponse struct {
	Status  int
	Payload interface{}
}

// ConsentCreationResponse is the body returned after a successful consent
// generation. RequestPayload carries the caller's original initiation payload
// untouched.
type ConsentCreationResponse struct {
	ConsentID          string          `json:"consentId"`
	ClientID           string          `json:"clientId"`
	ConsentType        string          `json:"consentType"`
	Status             string          `json:"status"`
	ConsentFrequency   int             `json:"consentFrequency"`
	ValidityTime       int64           `json:"validityTime"`
	RecurringIndicator bool            `json:"recurringIndicator"`
	CreatedTime        int64           `json:"createdTime"`
	RequestPayload     json.RawMessage `json:"requestPayload"`
}

// ConsentRetrievalResponse is the body returned for a consent retrieval. The
// receipt is emitted exactly as persisted.
type ConsentRetrievalResponse struct {
	ConsentID          string          `json:"consentId"`
	ClientID           string          `json:"clientId"`
	ConsentType        string          `json:"consentType"`
	Status             string          `json:"status"`
	ConsentFrequency   int             `json:"consentFrequency"`
	ValidityTime       int64           `json:"validityTime"`
	RecurringIndicator bool            `json:"recurringIndicator"`
	CreatedTime        int64           `json:"createdTime"`
	UpdatedTime        int64           `json:"updatedTime"`
	Receipt            json.RawMessage `json:"receipt"`
}
