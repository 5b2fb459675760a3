package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wso2/consent-extension-api/internal/extension"
)

// MockInvoker is a mock implementation of extension.Invoker
type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) InvokeGenerate(ctx context.Context, request *extension.ConsentGenerateRequest) (*extension.ConsentGenerateResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extension.ConsentGenerateResponse), args.Error(1)
}

func (m *MockInvoker) InvokeRetrieve(ctx context.Context, request *extension.ConsentRetrieveRequest) (*extension.ConsentRetrieveResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extension.ConsentRetrieveResponse), args.Error(1)
}

func (m *MockInvoker) InvokeRevoke(ctx context.Context, request *extension.ConsentRevokeRequest) (*extension.ConsentRevokeResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extension.ConsentRevokeResponse), args.Error(1)
}
