package models

import "time"

// RequestLogEntry represents a single captured HTTP request.
// Rows are append-only; the running system never mutates or deletes them.
type RequestLogEntry struct {
	ID        int64     `json:"id" db:"id"`
	IPAddress string    `json:"ipAddress" db:"ip_address"`
	UserAgent string    `json:"userAgent" db:"user_agent"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Method    string    `json:"method" db:"request_method"`
	Path      string    `json:"path" db:"request_path"`
	Referer   string    `json:"referer" db:"referer"`
}

// CredentialAttempt represents one submission to the fake login surface.
// Username and password are stored after truncation; PasswordLength always
// reflects the stored, truncated password.
type CredentialAttempt struct {
	ID                int64     `json:"id" db:"id"`
	IPAddress         string    `json:"ipAddress" db:"ip_address"`
	UserAgent         string    `json:"userAgent" db:"user_agent"`
	Timestamp         time.Time `json:"timestamp" db:"timestamp"`
	UsernameAttempted string    `json:"usernameAttempted" db:"username_attempted"`
	PasswordAttempted string    `json:"-" db:"password_attempted"`
	PasswordLength    int       `json:"passwordLength" db:"password_length"`
}

// AdminAccessRecord represents one PIN submission to the admin gate.
// SessionID is set only when access was granted.
type AdminAccessRecord struct {
	ID            int64     `json:"id" db:"id"`
	IPAddress     string    `json:"ipAddress" db:"ip_address"`
	Timestamp     time.Time `json:"timestamp" db:"timestamp"`
	PinEntered    string    `json:"-" db:"pin_entered"`
	AccessGranted bool      `json:"accessGranted" db:"access_granted"`
	SessionID     string    `json:"-" db:"session_id"`
}

// ConfigEntry is a key/value configuration row. The admin gate requires
// exactly one row with key "admin_pin" to function.
type ConfigEntry struct {
	Key         string    `json:"configKey" db:"config_key"`
	Value       string    `json:"-" db:"config_value"`
	Description string    `json:"description" db:"description"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// AdminPinKey is the app_config key holding the console PIN.
const AdminPinKey = "admin_pin"
