package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/securecorp/honeypot/models"
	"github.com/securecorp/honeypot/repositories"
)

// PinResult is the outcome of a PIN submission.
type PinResult int

const (
	// PinDenied means the PIN did not match the stored secret.
	PinDenied PinResult = iota
	// PinGranted means the PIN matched and a session may be marked admin.
	PinGranted
	// PinSystemError means the stored PIN could not be read. This points at
	// a provisioning bug, not an attacker.
	PinSystemError
)

// AdminService validates PIN submissions against the stored secret.
type AdminService interface {
	SubmitPin(ctx context.Context, ip, pin, sessionID string) PinResult
}

type adminService struct {
	configRepo repositories.ConfigRepository
	recorder   Recorder
	logger     *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(configRepo repositories.ConfigRepository, recorder Recorder, logger *zap.Logger) AdminService {
	return &adminService{
		configRepo: configRepo,
		recorder:   recorder,
		logger:     logger,
	}
}

// SubmitPin checks the submitted PIN. Every call, whatever the outcome,
// produces exactly one access record. The caller is responsible for rate
// limiting before this point.
func (s *adminService) SubmitPin(ctx context.Context, ip, pin, sessionID string) PinResult {
	record := &models.AdminAccessRecord{
		IPAddress:  ip,
		Timestamp:  time.Now().UTC(),
		PinEntered: pin,
	}

	cfg, err := s.configRepo.Get(ctx, models.AdminPinKey)
	if err != nil {
		if errors.Is(err, repositories.ErrConfigNotFound) {
			s.logger.Error("admin PIN is not provisioned")
		} else {
			s.logger.Error("admin PIN lookup failed", zap.Error(err))
		}
		s.recorder.RecordAdminAccess(record)
		return PinSystemError
	}

	granted := secureCompare(pin, cfg.Value)

	record.AccessGranted = granted
	if granted {
		record.SessionID = sessionID
	}
	s.recorder.RecordAdminAccess(record)

	if granted {
		s.logger.Info("admin access granted", zap.String("ip", ip))
		return PinGranted
	}

	s.logger.Warn("admin access denied", zap.String("ip", ip))
	return PinDenied
}

// secureCompare compares two strings in constant time. On a length
// mismatch it still performs a dummy equal-length comparison, so response
// timing reveals neither the PIN's content nor its length.
func secureCompare(given, expected string) bool {
	a := []byte(given)
	b := []byte(expected)

	if len(a) != len(b) {
		subtle.ConstantTimeCompare(a, make([]byte, len(a)))
		return false
	}

	return subtle.ConstantTimeCompare(a, b) == 1
}
