package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/SunnySoftwareTech/Drafty/models"
	"github.com/SunnySoftwareTech/Drafty/remote"
)

type MockSnapshotClient struct {
	mock.Mock
}

func (m *MockSnapshotClient) Discover(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockSnapshotClient) Create(ctx context.Context, snap models.Snapshot) (string, error) {
	args := m.Called(ctx, snap)
	return args.String(0), args.Error(1)
}

func (m *MockSnapshotClient) Update(ctx context.Context, id string, snap models.Snapshot) error {
	args := m.Called(ctx, id, snap)
	return args.Error(0)
}

func (m *MockSnapshotClient) Fetch(ctx context.Context, id string) (*models.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) NewClient(token string) remote.SnapshotClient {
	args := m.Called(token)
	return args.Get(0).(remote.SnapshotClient)
}

func (m *MockProvider) TestToken(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}
