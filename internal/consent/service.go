// Package consent provides the consent persistence collaborator consumed by
// the manage dispatcher.
package consent

import (
	"context"

	"github.com/wso2/consent-extension-api/internal/models"
)

// CoreService is the persistence surface the lifecycle operations depend on.
// Implementations must be safe for concurrent use; callers do not add
// synchronization around the read-decide-write sequence.
type CoreService interface {
	// GetConsent returns the consent for the given ID, or (nil, nil) when no
	// such consent exists.
	GetConsent(ctx context.Context, consentID string) (*models.ConsentResource, error)

	// GetConsentAttributes returns the attribute map for the given consent ID.
	// A consent without attributes yields an empty map.
	GetConsentAttributes(ctx context.Context, consentID string) (map[string]string, error)

	// CreateAuthorizableConsent persists a new consent with the decided
	// status. When authResource is nil and implicitAuth is set, an implicit
	// authorization record of the given type is created alongside, carrying
	// the authorization status stamped on the resource.
	CreateAuthorizableConsent(ctx context.Context, resource *models.ConsentResource,
		authResource *models.AuthorizationResource, consentStatus, authType string,
		implicitAuth bool) (*models.DetailedConsentResource, error)

	// RevokeConsent applies the revocation decision: updates the consent
	// status and records a status audit entry. Returns false when the consent
	// row was not updated. Token revocation itself belongs to the identity
	// provider; the flag is recorded for it.
	RevokeConsent(ctx context.Context, consentID, revokedStatus string, reason *string,
		revokeTokens bool) (bool, error)
}
