package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) UpsertBatch(ctx context.Context, leads []entity.Lead) error {
	return m.Called(ctx, leads).Error(0)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, scope entity.LeadScope, limit int) ([]entity.Lead, error) {
	args := m.Called(ctx, scope, limit)
	leads, _ := args.Get(0).([]entity.Lead)
	return leads, args.Error(1)
}

func (m *MockLeadRepository) ListPaginated(ctx context.Context, scope entity.LeadScope, filter entity.LeadFilter, offset, limit int) ([]entity.Lead, int, error) {
	args := m.Called(ctx, scope, filter, offset, limit)
	leads, _ := args.Get(0).([]entity.Lead)
	return leads, args.Int(1), args.Error(2)
}

func (m *MockLeadRepository) Search(ctx context.Context, scope entity.LeadScope, term string, limit int) ([]entity.Lead, error) {
	args := m.Called(ctx, scope, term, limit)
	leads, _ := args.Get(0).([]entity.Lead)
	return leads, args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockLeadRepository) BulkUpdateStatus(ctx context.Context, scope entity.LeadScope, ids []string, status entity.LeadStatus) (int64, error) {
	args := m.Called(ctx, scope, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) UpdateInfo(ctx context.Context, id string, update entity.LeadInfoUpdate) error {
	return m.Called(ctx, id, update).Error(0)
}

func (m *MockLeadRepository) DeleteAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLeadRepository) Stats(ctx context.Context, scope entity.LeadScope, days int) (*entity.DashboardStats, error) {
	args := m.Called(ctx, scope, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DashboardStats), args.Error(1)
}

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Insert(ctx context.Context, log *entity.HistoryLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockHistoryRepository) FindByLeadID(ctx context.Context, leadID string) ([]entity.HistoryLog, error) {
	args := m.Called(ctx, leadID)
	logs, _ := args.Get(0).([]entity.HistoryLog)
	return logs, args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByPhone(ctx context.Context, candidates []string) (*entity.AuthorizedUser, error) {
	args := m.Called(ctx, candidates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthorizedUser), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]entity.AuthorizedUser, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]entity.AuthorizedUser)
	return users, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.AuthorizedUser) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *entity.AuthorizedUser) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id string, status entity.UserStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) ExpireOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockAccessLogRepository struct {
	mock.Mock
}

func (m *MockAccessLogRepository) Insert(ctx context.Context, log entity.AccessLog) error {
	return m.Called(ctx, log).Error(0)
}
