package consent

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/consent-extension-api/internal/models"
)

const storeTestConsentID = "7f4df902-41c4-42c2-9c16-2c5e64b6a322"

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewStore(sqlx.NewDb(mockDB, "sqlmock"), logger), mock
}

func consentColumns() []string {
	return []string{
		"CONSENT_ID", "CLIENT_ID", "RECEIPT", "CONSENT_TYPE", "CONSENT_FREQUENCY",
		"VALIDITY_TIME", "RECURRING_INDICATOR", "CURRENT_STATUS", "CREATED_TIME", "UPDATED_TIME", "ORG_ID",
	}
}

func TestGetConsentFound(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM FS_CONSENT WHERE CONSENT_ID").
		WithArgs(storeTestConsentID).
		WillReturnRows(sqlmock.NewRows(consentColumns()).
			AddRow(storeTestConsentID, "client-1", []byte(`{"permissions":["ReadAccountsBasic"]}`),
				"accounts", 1, int64(1790812800), true, "authorized", int64(1756600000000), int64(1756600000000),
				"DEFAULT_ORG"))

	consent, err := store.GetConsent(context.Background(), storeTestConsentID)

	require.NoError(t, err)
	require.NotNil(t, consent)
	assert.Equal(t, storeTestConsentID, consent.ConsentID)
	assert.Equal(t, "authorized", consent.CurrentStatus)
	assert.JSONEq(t, `{"permissions":["ReadAccountsBasic"]}`, string(consent.Receipt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConsentAbsent(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM FS_CONSENT WHERE CONSENT_ID").
		WithArgs(storeTestConsentID).
		WillReturnRows(sqlmock.NewRows(consentColumns()))

	consent, err := store.GetConsent(context.Background(), storeTestConsentID)

	// Absence is a nil resource, not an error.
	require.NoError(t, err)
	assert.Nil(t, consent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConsentAttributes(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM FS_CONSENT_ATTRIBUTE WHERE CONSENT_ID").
		WithArgs(storeTestConsentID).
		WillReturnRows(sqlmock.NewRows([]string{"CONSENT_ID", "ATT_KEY", "ATT_VALUE"}).
			AddRow(storeTestConsentID, "idempotency-key", "abc-123").
			AddRow(storeTestConsentID, "channel", "psd2"))

	attributes, err := store.GetConsentAttributes(context.Background(), storeTestConsentID)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"idempotency-key": "abc-123",
		"channel":         "psd2",
	}, attributes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuthorizableConsentImplicitAuth(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO FS_CONSENT \(`).
		WithArgs(sqlmock.AnyArg(), "client-1", sqlmock.AnyArg(), "accounts", 1, int64(1790812800),
			true, "awaitingAuthorisation", sqlmock.AnyArg(), sqlmock.AnyArg(), "DEFAULT_ORG").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO FS_CONSENT_AUTH_RESOURCE \(`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "authorisation", nil, "created", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO FS_CONSENT_STATUS_AUDIT \(`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	resource := &models.ConsentResource{
		ClientID:           "client-1",
		OrgID:              "DEFAULT_ORG",
		Receipt:            models.JSON(`{"permissions":["ReadAccountsBasic"]}`),
		ConsentType:        "accounts",
		ConsentFrequency:   1,
		ValidityTime:       1790812800,
		RecurringIndicator: true,
		CurrentStatus:      "created", // authorization status before the decision applies
	}

	created, err := store.CreateAuthorizableConsent(context.Background(), resource, nil,
		"awaitingAuthorisation", "authorisation", true)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ConsentID)
	// The decided consent status lands on the consent row.
	assert.Equal(t, "awaitingAuthorisation", created.CurrentStatus)
	require.Len(t, created.AuthorizationResources, 1)
	assert.Equal(t, "authorisation", created.AuthorizationResources[0].AuthorizationType)
	assert.Equal(t, "created", created.AuthorizationResources[0].AuthorizationStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuthorizableConsentNoImplicitAuth(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO FS_CONSENT \(`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO FS_CONSENT_STATUS_AUDIT \(`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	resource := &models.ConsentResource{
		ClientID:    "client-1",
		Receipt:     models.JSON(`{}`),
		ConsentType: "accounts",
	}

	created, err := store.CreateAuthorizableConsent(context.Background(), resource, nil,
		"awaitingAuthorisation", "authorisation", false)

	require.NoError(t, err)
	assert.Empty(t, created.AuthorizationResources)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeConsentSuccess(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM FS_CONSENT WHERE CONSENT_ID").
		WithArgs(storeTestConsentID).
		WillReturnRows(sqlmock.NewRows(consentColumns()).
			AddRow(storeTestConsentID, "client-1", []byte(`{}`), "accounts", 1,
				int64(0), false, "authorized", int64(0), int64(0), "DEFAULT_ORG"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE FS_CONSENT SET CURRENT_STATUS").
		WithArgs("revoked", sqlmock.AnyArg(), storeTestConsentID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO FS_CONSENT_STATUS_AUDIT \(`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	success, err := store.RevokeConsent(context.Background(), storeTestConsentID, "revoked", nil, true)

	require.NoError(t, err)
	assert.True(t, success)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeConsentMissingRow(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM FS_CONSENT WHERE CONSENT_ID").
		WithArgs(storeTestConsentID).
		WillReturnRows(sqlmock.NewRows(consentColumns()))

	success, err := store.RevokeConsent(context.Background(), storeTestConsentID, "revoked", nil, false)

	require.NoError(t, err)
	assert.False(t, success)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeConsentNoRowsUpdated(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM FS_CONSENT WHERE CONSENT_ID").
		WithArgs(storeTestConsentID).
		WillReturnRows(sqlmock.NewRows(consentColumns()).
			AddRow(storeTestConsentID, "client-1", []byte(`{}`), "accounts", 1,
				int64(0), false, "authorized", int64(0), int64(0), "DEFAULT_ORG"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE FS_CONSENT SET CURRENT_STATUS").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	success, err := store.RevokeConsent(context.Background(), storeTestConsentID, "revoked", nil, false)

	require.NoError(t, err)
	assert.False(t, success)
	assert.NoError(t, mock.ExpectationsWereMet())
}
