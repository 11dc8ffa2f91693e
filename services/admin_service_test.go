package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/securecorp/honeypot/models"
	"github.com/securecorp/honeypot/repositories"
)

// SubmitPinTestSuite is a test suite for the SubmitPin method
type SubmitPinTestSuite struct {
	suite.Suite
	service    AdminService
	configRepo *mockConfigRepo
	recorder   *recorderStub
}

// SetupTest sets up the test suite before each test
func (suite *SubmitPinTestSuite) SetupTest() {
	suite.configRepo = &mockConfigRepo{}
	suite.recorder = &recorderStub{}
	suite.service = NewAdminService(suite.configRepo, suite.recorder, zap.NewNop())
}

func (suite *SubmitPinTestSuite) pinEntry(value string) *models.ConfigEntry {
	return &models.ConfigEntry{
		Key:       models.AdminPinKey,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
}

// TestSubmitPin_Granted tests a correct PIN producing a granted record with
// the session id attached
func (suite *SubmitPinTestSuite) TestSubmitPin_Granted() {
	suite.configRepo.On("Get", mock.Anything, models.AdminPinKey).Return(suite.pinEntry("3591"), nil)

	result := suite.service.SubmitPin(context.Background(), "198.51.100.9", "3591", "sess-1")

	assert.Equal(suite.T(), PinGranted, result)
	assert.Len(suite.T(), suite.recorder.access, 1)

	record := suite.recorder.access[0]
	assert.True(suite.T(), record.AccessGranted)
	assert.Equal(suite.T(), "sess-1", record.SessionID)
	assert.Equal(suite.T(), "3591", record.PinEntered)
	assert.Equal(suite.T(), "198.51.100.9", record.IPAddress)
}

// TestSubmitPin_Denied tests a wrong PIN producing a denied record without a
// session id
func (suite *SubmitPinTestSuite) TestSubmitPin_Denied() {
	suite.configRepo.On("Get", mock.Anything, models.AdminPinKey).Return(suite.pinEntry("3591"), nil)

	result := suite.service.SubmitPin(context.Background(), "198.51.100.9", "1234", "sess-1")

	assert.Equal(suite.T(), PinDenied, result)
	assert.Len(suite.T(), suite.recorder.access, 1)

	record := suite.recorder.access[0]
	assert.False(suite.T(), record.AccessGranted)
	assert.Empty(suite.T(), record.SessionID)
	assert.Equal(suite.T(), "1234", record.PinEntered)
}

// TestSubmitPin_MissingConfig tests an unprovisioned PIN surfacing as a
// system error, still with an access record
func (suite *SubmitPinTestSuite) TestSubmitPin_MissingConfig() {
	notFound := fmt.Errorf("config key %q: %w", models.AdminPinKey, repositories.ErrConfigNotFound)
	suite.configRepo.On("Get", mock.Anything, models.AdminPinKey).Return(nil, notFound)

	result := suite.service.SubmitPin(context.Background(), "198.51.100.9", "3591", "sess-1")

	assert.Equal(suite.T(), PinSystemError, result)
	assert.Len(suite.T(), suite.recorder.access, 1)
	assert.False(suite.T(), suite.recorder.access[0].AccessGranted)
	assert.Empty(suite.T(), suite.recorder.access[0].SessionID)
}

// TestSubmitPin_LookupError tests a failing config read surfacing as a
// system error rather than a denial
func (suite *SubmitPinTestSuite) TestSubmitPin_LookupError() {
	suite.configRepo.On("Get", mock.Anything, models.AdminPinKey).Return(nil, errors.New("disk I/O error"))

	result := suite.service.SubmitPin(context.Background(), "198.51.100.9", "3591", "sess-1")

	assert.Equal(suite.T(), PinSystemError, result)
	assert.Len(suite.T(), suite.recorder.access, 1)
}

// TestSubmitPin_OneRecordPerCall tests that repeated submissions each leave
// exactly one record
func (suite *SubmitPinTestSuite) TestSubmitPin_OneRecordPerCall() {
	suite.configRepo.On("Get", mock.Anything, models.AdminPinKey).Return(suite.pinEntry("3591"), nil)

	suite.service.SubmitPin(context.Background(), "198.51.100.9", "0000", "")
	suite.service.SubmitPin(context.Background(), "198.51.100.9", "3591", "sess-2")
	suite.service.SubmitPin(context.Background(), "198.51.100.9", "9999", "")

	assert.Len(suite.T(), suite.recorder.access, 3)
}

func TestSubmitPinTestSuite(t *testing.T) {
	suite.Run(t, new(SubmitPinTestSuite))
}

func TestSecureCompare(t *testing.T) {
	tests := []struct {
		name     string
		given    string
		expected string
		want     bool
	}{
		{"equal", "3591", "3591", true},
		{"same length mismatch", "3592", "3591", false},
		{"shorter input", "359", "3591", false},
		{"longer input", "35911", "3591", false},
		{"empty input", "", "3591", false},
		{"both empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, secureCompare(tt.given, tt.expected))
		})
	}
}
