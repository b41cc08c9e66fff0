// Package mocks provides testify mocks for the device use case and its dependencies.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
)

// MockDeviceUseCase is a mock implementation of usecase.DeviceUseCase.
type MockDeviceUseCase struct {
	mock.Mock
}

// Provision mocks the Provision method.
func (m *MockDeviceUseCase) Provision(
	ctx context.Context,
	input *deviceDomain.ProvisionInput,
) (*deviceDomain.Device, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deviceDomain.Device), args.Error(1)
}

// ProvisionBatch mocks the ProvisionBatch method.
func (m *MockDeviceUseCase) ProvisionBatch(
	ctx context.Context,
	input *deviceDomain.ProvisionInput,
	count int,
) ([]*deviceDomain.Device, error) {
	args := m.Called(ctx, input, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*deviceDomain.Device), args.Error(1)
}

// Get mocks the Get method.
func (m *MockDeviceUseCase) Get(ctx context.Context, deviceID string) (*deviceDomain.Device, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deviceDomain.Device), args.Error(1)
}

// List mocks the List method.
func (m *MockDeviceUseCase) List(ctx context.Context, offset, limit int) ([]*deviceDomain.Device, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*deviceDomain.Device), args.Error(1)
}

// Revoke mocks the Revoke method.
func (m *MockDeviceUseCase) Revoke(ctx context.Context, deviceID string) (*deviceDomain.Device, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deviceDomain.Device), args.Error(1)
}

// Announce mocks the Announce method.
func (m *MockDeviceUseCase) Announce(
	ctx context.Context,
	input *deviceDomain.AnnounceInput,
) (*deviceDomain.Device, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deviceDomain.Device), args.Error(1)
}

// MockDeviceRepository is a mock implementation of usecase.DeviceRepository.
type MockDeviceRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockDeviceRepository) Create(ctx context.Context, device *deviceDomain.Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

// GetByDeviceID mocks the GetByDeviceID method.
func (m *MockDeviceRepository) GetByDeviceID(ctx context.Context, deviceID string) (*deviceDomain.Device, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deviceDomain.Device), args.Error(1)
}

// List mocks the List method.
func (m *MockDeviceRepository) List(ctx context.Context, offset, limit int) ([]*deviceDomain.Device, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*deviceDomain.Device), args.Error(1)
}

// Revoke mocks the Revoke method.
func (m *MockDeviceRepository) Revoke(ctx context.Context, deviceID string, revokedAt time.Time) error {
	args := m.Called(ctx, deviceID, revokedAt)
	return args.Error(0)
}

// Touch mocks the Touch method.
func (m *MockDeviceRepository) Touch(ctx context.Context, deviceID string, seenAt time.Time) error {
	args := m.Called(ctx, deviceID, seenAt)
	return args.Error(0)
}

// MockTxManager is a mock implementation of database.TxManager that runs fn inline
// unless an error is configured.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks the WithTx method.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
