package services

import (
	"math/rand"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/securecorp/honeypot/models"
)

// The response delay is sampled uniformly from [minTrapDelay, maxTrapDelay)
// so the endpoint feels like a real credential check and leaks nothing
// about whether anything was stored.
const (
	minTrapDelay = 500 * time.Millisecond
	maxTrapDelay = 1500 * time.Millisecond
)

// TrapService captures submissions to the fake login surface. It never
// authenticates anyone; callers reject the login regardless of outcome.
type TrapService interface {
	Capture(ip, userAgent, username, password string)
}

type trapService struct {
	recorder Recorder
	logger   *zap.Logger
	delay    func() time.Duration
	sleep    func(time.Duration)
}

// NewTrapService creates a new trap service
func NewTrapService(recorder Recorder, logger *zap.Logger) TrapService {
	return &trapService{
		recorder: recorder,
		logger:   logger,
		delay:    trapDelay,
		sleep:    time.Sleep,
	}
}

// Capture records a credential attempt and then blocks this one request for
// the sampled delay. The delay holds no locks and slows nobody else down.
func (s *trapService) Capture(ip, userAgent, username, password string) {
	username = models.SanitizeUsername(username)
	password = models.SanitizePassword(password)

	s.recorder.RecordAttempt(&models.CredentialAttempt{
		IPAddress:         ip,
		UserAgent:         userAgent,
		Timestamp:         time.Now().UTC(),
		UsernameAttempted: username,
		PasswordAttempted: password,
		PasswordLength:    utf8.RuneCountInString(password),
	})

	s.logger.Info("credential attempt captured",
		zap.String("ip", ip),
		zap.String("username", username),
	)

	s.sleep(s.delay())
}

func trapDelay() time.Duration {
	return minTrapDelay + time.Duration(rand.Int63n(int64(maxTrapDelay-minTrapDelay)))
}
