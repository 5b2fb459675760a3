// Package extension implements the envelope protocol and typed per-stage
// contracts for the external consent decision service.
package extension

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/wso2/consent-extension-api/internal/models"
)

// ServiceExtensionType identifies the lifecycle stage an external call
// belongs to.
type ServiceExtensionType string

const (
	PreConsentGeneration ServiceExtensionType = "PRE_CONSENT_GENERATION"
	PreConsentRetrieval  ServiceExtensionType = "PRE_CONSENT_RETRIEVAL"
	PreConsentRevocation ServiceExtensionType = "PRE_CONSENT_REVOCATION"
)

// RequestPayload wraps the stage-specific object together with any headers
// forwarded to the decision service.
type RequestPayload struct {
	JSON    interface{}       `json:"json"`
	Headers map[string]string `json:"headers"`
}

// ExternalServiceRequest is the correlation envelope sent on every external
// call. Built once per call and discarded after the round trip.
type ExternalServiceRequest struct {
	CorrelationID string         `json:"correlationId"`
	Payload       RequestPayload `json:"payload"`
}

// NewExternalServiceRequest stamps a fresh correlation identifier onto the
// given stage payload. Headers default to an empty map.
func NewExternalServiceRequest(payload interface{}, headers map[string]string) *ExternalServiceRequest {
	if headers == nil {
		headers = make(map[string]string)
	}
	return &ExternalServiceRequest{
		CorrelationID: uuid.New().String(),
		Payload: RequestPayload{
			JSON:    payload,
			Headers: headers,
		},
	}
}

// ConsentGenerateRequest is the stage payload for PreConsentGeneration.
type ConsentGenerateRequest struct {
	ClientID       string            `json:"clientId"`
	ResourcePath   string            `json:"resourcePath"`
	ConsentPayload json.RawMessage   `json:"consentPayload"`
	RequestHeaders map[string]string `json:"requestHeaders,omitempty"`
}

// ConsentGenerateResponse carries the generation decision. The decision
// service owns receipt content, consent status and authorization type.
type ConsentGenerateResponse struct {
	Receipt             json.RawMessage `json:"receipt"`
	ConsentType         string          `json:"consentType"`
	ConsentFrequency    int             `json:"consentFrequency"`
	ValidityTime        int64           `json:"validityTime"`
	RecurringIndicator  bool            `json:"recurringIndicator"`
	AuthorizationStatus string          `json:"authorizationStatus"`
	ConsentStatus       string          `json:"consentStatus"`
	AuthorizationType   string          `json:"authorizationType"`
}

// Validate checks the structural contract of a generation decision.
func (r *ConsentGenerateResponse) Validate() error {
	if len(r.Receipt) == 0 {
		return fmt.Errorf("receipt missing in generate response")
	}
	if r.ConsentType == "" {
		return fmt.Errorf("consentType missing in generate response")
	}
	if r.ConsentStatus == "" {
		return fmt.Errorf("consentStatus missing in generate response")
	}
	if r.AuthorizationType == "" {
		return fmt.Errorf("authorizationType missing in generate response")
	}
	return nil
}

// ConsentRetrieveRequest is the stage payload for PreConsentRetrieval.
type ConsentRetrieveRequest struct {
	ConsentID         string            `json:"consentId"`
	ConsentType       string            `json:"consentType"`
	ResourcePath      string            `json:"resourcePath"`
	ConsentAttributes map[string]string `json:"consentAttributes,omitempty"`
}

// ConsentRetrieveResponse acknowledges a retrieval. The call is a gate; any
// content beyond the status is discarded by the caller.
type ConsentRetrieveResponse struct {
	Status string `json:"status"`
}

// Validate checks the structural contract of a retrieval decision.
func (r *ConsentRetrieveResponse) Validate() error {
	if r.Status == "" {
		return fmt.Errorf("status missing in retrieve response")
	}
	return nil
}

// ConsentRevokeRequest is the stage payload for PreConsentRevocation. It
// carries the full persisted resource so the decision service can inspect the
// current state.
type ConsentRevokeRequest struct {
	ConsentResource   *models.ConsentResource `json:"consentResource"`
	ResourcePath      string                  `json:"resourcePath"`
	ConsentAttributes map[string]string       `json:"consentAttributes,omitempty"`
}

// ConsentRevokeResponse carries the revocation decision: the status to apply
// and whether issued tokens must be revoked alongside.
type ConsentRevokeResponse struct {
	RevokedStatus      string `json:"revokedStatus"`
	ShouldRevokeTokens bool   `json:"shouldRevokeTokens"`
}

// Validate checks the structural contract of a revocation decision.
func (r *ConsentRevokeResponse) Validate() error {
	if r.RevokedStatus == "" {
		return fmt.Errorf("revokedStatus missing in revoke response")
	}
	return nil
}
