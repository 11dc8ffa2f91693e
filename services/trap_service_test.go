package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/securecorp/honeypot/models"
)

// newInstantTrap builds a trap service whose delay is observable and whose
// sleep returns immediately, so tests don't sit through the real 0.5-1.5s.
func newInstantTrap(recorder *recorderStub) (*trapService, *time.Duration) {
	var slept time.Duration
	return &trapService{
		recorder: recorder,
		logger:   zap.NewNop(),
		delay:    func() time.Duration { return 750 * time.Millisecond },
		sleep:    func(d time.Duration) { slept = d },
	}, &slept
}

func TestCaptureRecordsAttempt(t *testing.T) {
	recorder := &recorderStub{}
	trap, slept := newInstantTrap(recorder)

	trap.Capture("203.0.113.7", "curl/8.0", "  admin  ", "hunter2")

	assert.Len(t, recorder.attempts, 1)

	attempt := recorder.attempts[0]
	assert.Equal(t, "203.0.113.7", attempt.IPAddress)
	assert.Equal(t, "curl/8.0", attempt.UserAgent)
	assert.Equal(t, "admin", attempt.UsernameAttempted, "username should be trimmed")
	assert.Equal(t, "hunter2", attempt.PasswordAttempted)
	assert.Equal(t, 7, attempt.PasswordLength)
	assert.False(t, attempt.Timestamp.IsZero())

	assert.Equal(t, 750*time.Millisecond, *slept, "the sampled delay must be served")
}

func TestCaptureTruncatesLongFields(t *testing.T) {
	recorder := &recorderStub{}
	trap, _ := newInstantTrap(recorder)

	longUsername := strings.Repeat("a", 400)
	longPassword := strings.Repeat("é", 400)

	trap.Capture("203.0.113.7", "curl/8.0", longUsername, longPassword)

	attempt := recorder.attempts[0]
	assert.Len(t, attempt.UsernameAttempted, models.MaxFieldLength)
	assert.Equal(t, models.MaxFieldLength, attempt.PasswordLength,
		"password length must reflect the stored, truncated password")
	assert.Equal(t, strings.Repeat("é", models.MaxFieldLength), attempt.PasswordAttempted)
}

func TestCapturePreservesPasswordWhitespace(t *testing.T) {
	recorder := &recorderStub{}
	trap, _ := newInstantTrap(recorder)

	trap.Capture("203.0.113.7", "curl/8.0", "admin", "  spaced out  ")

	attempt := recorder.attempts[0]
	assert.Equal(t, "  spaced out  ", attempt.PasswordAttempted)
	assert.Equal(t, 14, attempt.PasswordLength)
}

func TestCaptureRecordsEmptyCredentials(t *testing.T) {
	recorder := &recorderStub{}
	trap, _ := newInstantTrap(recorder)

	trap.Capture("203.0.113.7", "", "", "")

	assert.Len(t, recorder.attempts, 1)
	attempt := recorder.attempts[0]
	assert.Empty(t, attempt.UsernameAttempted)
	assert.Zero(t, attempt.PasswordLength)
}

func TestTrapDelayStaysInRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		d := trapDelay()
		assert.GreaterOrEqual(t, d, minTrapDelay)
		assert.Less(t, d, maxTrapDelay)
	}
}
