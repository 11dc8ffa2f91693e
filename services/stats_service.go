package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/securecorp/honeypot/models"
	"github.com/securecorp/honeypot/repositories"
)

// Default query bounds used when the caller passes nothing sensible.
const (
	DefaultTimelineDays      = 7
	DefaultTopIPLimit        = 10
	DefaultTopUsernameLimit  = 20
	DefaultDistributionLimit = 10
	DefaultRecentLimit       = 25
	MaxRecentLimit           = 200
)

// TimelineSeries is a sparse per-day series of attempt counts, shaped as
// the parallel arrays the dashboard charts consume.
type TimelineSeries struct {
	Dates  []string `json:"dates"`
	Counts []int64  `json:"counts"`
}

// IPSeries ranks attacker IPs by attempt count.
type IPSeries struct {
	IPs    []string `json:"ips"`
	Counts []int64  `json:"counts"`
}

// UsernameSeries ranks attempted usernames by frequency.
type UsernameSeries struct {
	Usernames []string `json:"usernames"`
	Counts    []int64  `json:"counts"`
}

// PathSeries ranks requested paths by hit count.
type PathSeries struct {
	Paths  []string `json:"paths"`
	Counts []int64  `json:"counts"`
}

// AttemptRow is one row of the recent-attempts table. The captured password
// itself is not exposed here, only its length.
type AttemptRow struct {
	ID             int64     `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	IPAddress      string    `json:"ipAddress"`
	Username       string    `json:"username"`
	PasswordLength int       `json:"passwordLength"`
	UserAgent      string    `json:"userAgent"`
}

// RecentAttemptsPage is a page of attempts plus the table's total size.
type RecentAttemptsPage struct {
	Total    int64        `json:"total"`
	Attempts []AttemptRow `json:"attempts"`
}

// StatsService answers the analytics console's queries. Every method is
// lenient: a failed query logs a warning and degrades to an empty value so
// one broken chart never takes down the whole response. Callers cannot tell
// "no data" from "query failed"; that is a deliberate property of this
// surface, not an oversight.
type StatsService interface {
	Timeline(ctx context.Context, days int) TimelineSeries
	TopIPs(ctx context.Context, limit int) IPSeries
	TopUsernames(ctx context.Context, limit int) UsernameSeries
	Overview(ctx context.Context) models.OverviewStats
	RequestDistribution(ctx context.Context, limit int) PathSeries
	RecentAttempts(ctx context.Context, limit, offset int) RecentAttemptsPage
}

type statsService struct {
	credentialRepo repositories.CredentialRepository
	requestRepo    repositories.RequestLogRepository
	logger         *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(credentialRepo repositories.CredentialRepository, requestRepo repositories.RequestLogRepository, logger *zap.Logger) StatsService {
	return &statsService{
		credentialRepo: credentialRepo,
		requestRepo:    requestRepo,
		logger:         logger,
	}
}

// Timeline returns attempts per calendar date over the last days days,
// ascending. Empty buckets are omitted, not zero-filled.
func (s *statsService) Timeline(ctx context.Context, days int) TimelineSeries {
	if days <= 0 {
		days = DefaultTimelineDays
	}

	series := TimelineSeries{Dates: []string{}, Counts: []int64{}}

	since := time.Now().UTC().AddDate(0, 0, -days)
	buckets, err := s.credentialRepo.CountByDate(ctx, since)
	if err != nil {
		s.logger.Warn("timeline query failed", zap.Error(err))
		return series
	}

	for _, bucket := range buckets {
		series.Dates = append(series.Dates, bucket.Date)
		series.Counts = append(series.Counts, bucket.Count)
	}
	return series
}

// TopIPs returns the most active attacker IPs, capped at limit.
func (s *statsService) TopIPs(ctx context.Context, limit int) IPSeries {
	if limit <= 0 {
		limit = DefaultTopIPLimit
	}

	series := IPSeries{IPs: []string{}, Counts: []int64{}}

	buckets, err := s.credentialRepo.TopIPs(ctx, limit)
	if err != nil {
		s.logger.Warn("top IPs query failed", zap.Error(err))
		return series
	}

	for _, bucket := range buckets {
		series.IPs = append(series.IPs, bucket.Label)
		series.Counts = append(series.Counts, bucket.Count)
	}
	return series
}

// TopUsernames returns the most attempted usernames, capped at limit.
func (s *statsService) TopUsernames(ctx context.Context, limit int) UsernameSeries {
	if limit <= 0 {
		limit = DefaultTopUsernameLimit
	}

	series := UsernameSeries{Usernames: []string{}, Counts: []int64{}}

	buckets, err := s.credentialRepo.TopUsernames(ctx, limit)
	if err != nil {
		s.logger.Warn("top usernames query failed", zap.Error(err))
		return series
	}

	for _, bucket := range buckets {
		series.Usernames = append(series.Usernames, bucket.Label)
		series.Counts = append(series.Counts, bucket.Count)
	}
	return series
}

// Overview computes the headline numbers. The four sub-queries are
// independent: one failing leaves the others intact.
func (s *statsService) Overview(ctx context.Context) models.OverviewStats {
	var stats models.OverviewStats
	var err error

	if stats.TotalRequests, err = s.requestRepo.Count(ctx); err != nil {
		s.logger.Warn("request count query failed", zap.Error(err))
	}
	if stats.TotalAttempts, err = s.credentialRepo.Count(ctx); err != nil {
		s.logger.Warn("attempt count query failed", zap.Error(err))
	}
	if stats.UniqueIPs, err = s.credentialRepo.DistinctIPCount(ctx); err != nil {
		s.logger.Warn("distinct IP query failed", zap.Error(err))
	}
	if stats.FirstAttempt, stats.LastAttempt, err = s.credentialRepo.AttemptWindow(ctx); err != nil {
		s.logger.Warn("attempt window query failed", zap.Error(err))
	}

	return stats
}

// RequestDistribution returns hit counts per request path, capped at limit.
func (s *statsService) RequestDistribution(ctx context.Context, limit int) PathSeries {
	if limit <= 0 {
		limit = DefaultDistributionLimit
	}

	series := PathSeries{Paths: []string{}, Counts: []int64{}}

	buckets, err := s.requestRepo.PathDistribution(ctx, limit)
	if err != nil {
		s.logger.Warn("request distribution query failed", zap.Error(err))
		return series
	}

	for _, bucket := range buckets {
		series.Paths = append(series.Paths, bucket.Label)
		series.Counts = append(series.Counts, bucket.Count)
	}
	return series
}

// RecentAttempts returns one page of attempts, newest first, with the
// table's total count for the pager.
func (s *statsService) RecentAttempts(ctx context.Context, limit, offset int) RecentAttemptsPage {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	if offset < 0 {
		offset = 0
	}

	page := RecentAttemptsPage{Attempts: []AttemptRow{}}

	total, err := s.credentialRepo.Count(ctx)
	if err != nil {
		s.logger.Warn("attempt count query failed", zap.Error(err))
		return page
	}
	page.Total = total

	attempts, err := s.credentialRepo.Recent(ctx, limit, offset)
	if err != nil {
		s.logger.Warn("recent attempts query failed", zap.Error(err))
		return RecentAttemptsPage{Attempts: []AttemptRow{}}
	}

	for _, attempt := range attempts {
		page.Attempts = append(page.Attempts, AttemptRow{
			ID:             attempt.ID,
			Timestamp:      attempt.Timestamp,
			IPAddress:      attempt.IPAddress,
			Username:       attempt.UsernameAttempted,
			PasswordLength: attempt.PasswordLength,
			UserAgent:      attempt.UserAgent,
		})
	}
	return page
}
