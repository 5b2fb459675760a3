package consent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/wso2/consent-extension-api/internal/models"
	"github.com/wso2/consent-extension-api/internal/system/utils"
)

const (
	queryGetConsentByID = `
		SELECT CONSENT_ID, CLIENT_ID, RECEIPT, CONSENT_TYPE, CONSENT_FREQUENCY,
			VALIDITY_TIME, RECURRING_INDICATOR, CURRENT_STATUS, CREATED_TIME, UPDATED_TIME, ORG_ID
		FROM FS_CONSENT
		WHERE CONSENT_ID = ?
	`

	queryGetAttributesByConsentID = `
		SELECT CONSENT_ID, ATT_KEY, ATT_VALUE
		FROM FS_CONSENT_ATTRIBUTE
		WHERE CONSENT_ID = ?
	`

	queryCreateConsent = `
		INSERT INTO FS_CONSENT (
			CONSENT_ID, CLIENT_ID, RECEIPT, CONSENT_TYPE, CONSENT_FREQUENCY,
			VALIDITY_TIME, RECURRING_INDICATOR, CURRENT_STATUS, CREATED_TIME, UPDATED_TIME, ORG_ID
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	queryCreateAuthResource = `
		INSERT INTO FS_CONSENT_AUTH_RESOURCE (
			AUTH_ID, CONSENT_ID, AUTH_TYPE, USER_ID, AUTH_STATUS, UPDATED_TIME
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	queryUpdateConsentStatus = `
		UPDATE FS_CONSENT SET CURRENT_STATUS = ?, UPDATED_TIME = ? WHERE CONSENT_ID = ?
	`

	queryCreateStatusAudit = `
		INSERT INTO FS_CONSENT_STATUS_AUDIT (
			STATUS_AUDIT_ID, CONSENT_ID, CURRENT_STATUS, ACTION_TIME, REASON, ACTION_BY, PREVIOUS_STATUS
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
)

// Store is the sqlx/MySQL implementation of CoreService.
type Store struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewStore creates a new consent store.
func NewStore(db *sqlx.DB, logger *logrus.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// GetConsent loads a consent by ID. Absence is not an error.
func (s *Store) GetConsent(ctx context.Context, consentID string) (*models.ConsentResource, error) {
	var consent models.ConsentResource
	err := s.db.GetContext(ctx, &consent, queryGetConsentByID, consentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get consent: %w", err)
	}
	return &consent, nil
}

// GetConsentAttributes loads the attribute map for a consent.
func (s *Store) GetConsentAttributes(ctx context.Context, consentID string) (map[string]string, error) {
	var rows []models.ConsentAttribute
	if err := s.db.SelectContext(ctx, &rows, queryGetAttributesByConsentID, consentID); err != nil {
		return nil, fmt.Errorf("failed to get consent attributes: %w", err)
	}

	attributes := make(map[string]string, len(rows))
	for _, row := range rows {
		attributes[row.AttKey] = row.AttValue
	}
	return attributes, nil
}

// CreateAuthorizableConsent persists the consent, its status audit entry and,
// when requested, an implicit authorization record in one transaction.
func (s *Store) CreateAuthorizableConsent(ctx context.Context, resource *models.ConsentResource,
	authResource *models.AuthorizationResource, consentStatus, authType string,
	implicitAuth bool) (*models.DetailedConsentResource, error) {

	currentTime := time.Now().UnixMilli()

	created := *resource
	if created.ConsentID == "" {
		created.ConsentID = utils.GenerateUUID()
	}
	created.CreatedTime = currentTime
	created.UpdatedTime = currentTime

	// The resource arrives stamped with the authorization status; the
	// decided consent status is what gets persisted on the consent row.
	authStatus := created.CurrentStatus
	created.CurrentStatus = consentStatus

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, queryCreateConsent,
		created.ConsentID,
		created.ClientID,
		created.Receipt,
		created.ConsentType,
		created.ConsentFrequency,
		created.ValidityTime,
		created.RecurringIndicator,
		created.CurrentStatus,
		created.CreatedTime,
		created.UpdatedTime,
		created.OrgID,
	); err != nil {
		return nil, fmt.Errorf("failed to create consent: %w", err)
	}

	var authResources []models.AuthorizationResource
	if authResource == nil && implicitAuth {
		authResource = &models.AuthorizationResource{
			AuthorizationID:     utils.GenerateUUID(),
			ConsentID:           created.ConsentID,
			AuthorizationType:   authType,
			AuthorizationStatus: authStatus,
			UpdatedTime:         currentTime,
		}
	}
	if authResource != nil {
		if authResource.AuthorizationID == "" {
			authResource.AuthorizationID = utils.GenerateUUID()
		}
		authResource.ConsentID = created.ConsentID
		if _, err := tx.ExecContext(ctx, queryCreateAuthResource,
			authResource.AuthorizationID,
			authResource.ConsentID,
			authResource.AuthorizationType,
			authResource.UserID,
			authResource.AuthorizationStatus,
			authResource.UpdatedTime,
		); err != nil {
			return nil, fmt.Errorf("failed to create authorization resource: %w", err)
		}
		authResources = append(authResources, *authResource)
	}

	reason := "Consent created"
	if err := s.createStatusAudit(ctx, tx, &models.ConsentStatusAudit{
		StatusAuditID: utils.GenerateUUID(),
		ConsentID:     created.ConsentID,
		CurrentStatus: created.CurrentStatus,
		ActionTime:    currentTime,
		Reason:        &reason,
		ActionBy:      &created.ClientID,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.DetailedConsentResource{
		ConsentResource:        created,
		AuthorizationResources: authResources,
	}, nil
}

// RevokeConsent updates the consent status and audits the transition. A
// missing row yields (false, nil). Repeated revocations are plain repeated
// status writes; no-op detection is deliberately not performed here.
func (s *Store) RevokeConsent(ctx context.Context, consentID, revokedStatus string, reason *string,
	revokeTokens bool) (bool, error) {

	currentTime := time.Now().UnixMilli()

	existing, err := s.GetConsent(ctx, consentID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, queryUpdateConsentStatus, revokedStatus, currentTime, consentID)
	if err != nil {
		return false, fmt.Errorf("failed to update consent status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	if err := s.createStatusAudit(ctx, tx, &models.ConsentStatusAudit{
		StatusAuditID:  utils.GenerateUUID(),
		ConsentID:      consentID,
		CurrentStatus:  revokedStatus,
		ActionTime:     currentTime,
		Reason:         reason,
		ActionBy:       &existing.ClientID,
		PreviousStatus: &existing.CurrentStatus,
	}); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if revokeTokens {
		// Token revocation is carried out by the identity provider; surface
		// the decision for its collaborator to pick up.
		s.logger.WithFields(logrus.Fields{
			"consentId": consentID,
			"clientId":  existing.ClientID,
		}).Info("Token revocation requested for consent")
	}

	return true, nil
}

func (s *Store) createStatusAudit(ctx context.Context, tx *sqlx.Tx, audit *models.ConsentStatusAudit) error {
	if _, err := tx.ExecContext(ctx, queryCreateStatusAudit,
		audit.StatusAuditID,
		audit.ConsentID,
		audit.CurrentStatus,
		audit.ActionTime,
		audit.Reason,
		audit.ActionBy,
		audit.PreviousStatus,
	); err != nil {
		return fmt.Errorf("failed to create status audit: %w", err)
	}
	return nil
}
