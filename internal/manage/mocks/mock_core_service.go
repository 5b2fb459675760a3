package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wso2/consent-extension-api/internal/models"
)

// MockCoreService is a mock implementation of consent.CoreService
type MockCoreService struct {
	mock.Mock
}

func (m *MockCoreService) GetConsent(ctx context.Context, consentID string) (*models.ConsentResource, error) {
	args := m.Called(ctx, consentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConsentResource), args.Error(1)
}

func (m *MockCoreService) GetConsentAttributes(ctx context.Context, consentID string) (map[string]string, error) {
	args := m.Called(ctx, consentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockCoreService) CreateAuthorizableConsent(ctx context.Context, resource *models.ConsentResource,
	authResource *models.AuthorizationResource, consentStatus, authType string,
	implicitAuth bool) (*models.DetailedConsentResource, error) {
	args := m.Called(ctx, resource, authResource, consentStatus, authType, implicitAuth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DetailedConsentResource), args.Error(1)
}

func (m *MockCoreService) RevokeConsent(ctx context.Context, consentID, revokedStatus string, reason *string,
	revokeTokens bool) (bool, error) {
	args := m.Called(ctx, consentID, revokedStatus, reason, revokeTokens)
	return args.Bool(0), args.Error(1)
}
