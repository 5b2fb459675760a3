package constants

const (
	AuthorizationHeaderName = "Authorization"
	ContentTypeHeaderName   = "Content-Type"
	CorrelationIDHeaderName = "X-Correlation-ID"
	ClientIDHeaderName      = "client-id"
	OrgIDHeaderName         = "org-id"
	ContentTypeJSON         = "application/json"

	APIBasePath = "/api/v1"

	// DefaultOrgID is used when the gateway does not forward an org-id header.
	DefaultOrgID = "DEFAULT_ORG"

	// Aliases for convenience
	HeaderContentType = ContentTypeHeaderName
	HeaderClientID    = ClientIDHeaderName
	HeaderOrgID       = OrgIDHeaderName
)
