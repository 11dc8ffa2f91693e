package repositories

import (
	"database/sql"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	RequestLogs RequestLogRepository
	Credentials CredentialRepository
	AdminAccess AdminAccessRepository
	Config      ConfigRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		RequestLogs: NewRequestLogRepository(db),
		Credentials: NewCredentialRepository(db),
		AdminAccess: NewAdminAccessRepository(db),
		Config:      NewConfigRepository(db),
	}
}
