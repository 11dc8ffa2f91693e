package services

import (
	"go.uber.org/zap"

	"github.com/securecorp/honeypot/models"
	"github.com/securecorp/honeypot/repositories"
)

// Recorder is the fire-and-forget capture sink. Submission never fails and
// never blocks; write outcomes are observed out-of-band.
type Recorder interface {
	RecordAttempt(attempt *models.CredentialAttempt)
	RecordAdminAccess(record *models.AdminAccessRecord)
}

// Services holds all service instances
type Services struct {
	Trap  TrapService
	Admin AdminService
	Stats StatsService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, recorder Recorder, logger *zap.Logger) *Services {
	return &Services{
		Trap:  NewTrapService(recorder, logger),
		Admin: NewAdminService(repos.Config, recorder, logger),
		Stats: NewStatsService(repos.Credentials, repos.RequestLogs, logger),
	}
}
