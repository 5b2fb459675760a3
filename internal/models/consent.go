package models

// ConsentResource represents a row of the FS_CONSENT table.
type ConsentResource struct {
	ConsentID          string `db:"CONSENT_ID" json:"consentId"`
	ClientID           string `db:"CLIENT_ID" json:"clientId"`
	Receipt            JSON   `db:"RECEIPT" json:"receipt"`
	ConsentType        string `db:"CONSENT_TYPE" json:"consentType"`
	ConsentFrequency   int    `db:"CONSENT_FREQUENCY" json:"consentFrequency"`
	ValidityTime       int64  `db:"VALIDITY_TIME" json:"validityTime"`
	RecurringIndicator bool   `db:"RECURRING_INDICATOR" json:"recurringIndicator"`
	CurrentStatus      string `db:"CURRENT_STATUS" json:"currentStatus"`
	CreatedTime        int64  `db:"CREATED_TIME" json:"createdTime"`
	UpdatedTime        int64  `db:"UPDATED_TIME" json:"updatedTime"`
	OrgID              string `db:"ORG_ID" json:"orgId,omitempty"`
}

// AuthorizationResource represents a row of the FS_CONSENT_AUTH_RESOURCE table.
type AuthorizationResource struct {
	AuthorizationID     string  `db:"AUTH_ID" json:"authorizationId"`
	ConsentID           string  `db:"CONSENT_ID" json:"consentId"`
	AuthorizationType   string  `db:"AUTH_TYPE" json:"authorizationType"`
	UserID              *string `db:"USER_ID" json:"userId,omitempty"`
	AuthorizationStatus string  `db:"AUTH_STATUS" json:"authorizationStatus"`
	UpdatedTime         int64   `db:"UPDATED_TIME" json:"updatedTime"`
}

// DetailedConsentResource is a consent together with its authorization
// records, as returned after an authorizable-consent creation. Read-only for
// callers once created.
type DetailedConsentResource struct {
	ConsentResource
	AuthorizationResources []AuthorizationResource `json:"authorizationResources"`
	ConsentAttributes      map[string]string       `json:"consentAttributes,omitempty"`
}

// ConsentAttribute represents a row of the FS_CONSENT_ATTRIBUTE table.
type ConsentAttribute struct {
	ConsentID string `db:"CONSENT_ID"`
	AttKey    string `db:"ATT_KEY"`
	AttValue  string `db:"ATT_VALUE"`
}

// ConsentStatusAudit represents a row of the FS_CONSENT_STATUS_AUDIT table.
type ConsentStatusAudit struct {
	StatusAuditID  string  `db:"STATUS_AUDIT_ID"`
	ConsentID      string  `db:"CONSENT_ID"`
	CurrentStatus  string  `db:"CURRENT_STATUS"`
	ActionTime     int64   `db:"ACTION_TIME"`
	Reason         *string `db:"REASON"`
	ActionBy       *string `db:"ACTION_BY"`
	PreviousStatus *string `db:"PREVIOUS_STATUS"`
}
