package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/securecorp/honeypot/models"
)

// recorderStub captures submitted records synchronously so tests can assert
// on them without a background worker in the way.
type recorderStub struct {
	mu       sync.Mutex
	attempts []*models.CredentialAttempt
	access   []*models.AdminAccessRecord
}

func (r *recorderStub) RecordAttempt(attempt *models.CredentialAttempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempt)
}

func (r *recorderStub) RecordAdminAccess(record *models.AdminAccessRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.access = append(r.access, record)
}

type mockConfigRepo struct {
	mock.Mock
}

func (m *mockConfigRepo) Get(ctx context.Context, key string) (*models.ConfigEntry, error) {
	args := m.Called(ctx, key)
	var entry *models.ConfigEntry
	if v := args.Get(0); v != nil {
		entry = v.(*models.ConfigEntry)
	}
	return entry, args.Error(1)
}

type mockCredentialRepo struct {
	mock.Mock
}

func (m *mockCredentialRepo) Create(ctx context.Context, attempt *models.CredentialAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *mockCredentialRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCredentialRepo) DistinctIPCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCredentialRepo) AttemptWindow(ctx context.Context) (*time.Time, *time.Time, error) {
	args := m.Called(ctx)
	var first, last *time.Time
	if v := args.Get(0); v != nil {
		first = v.(*time.Time)
	}
	if v := args.Get(1); v != nil {
		last = v.(*time.Time)
	}
	return first, last, args.Error(2)
}

func (m *mockCredentialRepo) CountByDate(ctx context.Context, since time.Time) ([]models.DateCount, error) {
	args := m.Called(ctx, since)
	var buckets []models.DateCount
	if v := args.Get(0); v != nil {
		buckets = v.([]models.DateCount)
	}
	return buckets, args.Error(1)
}

func (m *mockCredentialRepo) TopIPs(ctx context.Context, limit int) ([]models.LabelCount, error) {
	args := m.Called(ctx, limit)
	var buckets []models.LabelCount
	if v := args.Get(0); v != nil {
		buckets = v.([]models.LabelCount)
	}
	return buckets, args.Error(1)
}

func (m *mockCredentialRepo) TopUsernames(ctx context.Context, limit int) ([]models.LabelCount, error) {
	args := m.Called(ctx, limit)
	var buckets []models.LabelCount
	if v := args.Get(0); v != nil {
		buckets = v.([]models.LabelCount)
	}
	return buckets, args.Error(1)
}

func (m *mockCredentialRepo) Recent(ctx context.Context, limit, offset int) ([]models.CredentialAttempt, error) {
	args := m.Called(ctx, limit, offset)
	var attempts []models.CredentialAttempt
	if v := args.Get(0); v != nil {
		attempts = v.([]models.CredentialAttempt)
	}
	return attempts, args.Error(1)
}

type mockRequestRepo struct {
	mock.Mock
}

func (m *mockRequestRepo) Create(ctx context.Context, entry *models.RequestLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockRequestRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRequestRepo) PathDistribution(ctx context.Context, limit int) ([]models.LabelCount, error) {
	args := m.Called(ctx, limit)
	var buckets []models.LabelCount
	if v := args.Get(0); v != nil {
		buckets = v.([]models.LabelCount)
	}
	return buckets, args.Error(1)
}
