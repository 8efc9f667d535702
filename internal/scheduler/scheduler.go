package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/erazemk/vozicek/internal/readiness"
	"github.com/erazemk/vozicek/internal/store"
)

const jobTimeout = 2 * time.Minute

// Config selects when the daily jobs run.
type Config struct {
	BackupDir  string
	BackupCron string
	DigestCron string
}

// Scheduler runs the daily backup and the morning alert digest.
type Scheduler struct {
	cron *cron.Cron
	db   *sql.DB
	cfg  Config
	log  zerolog.Logger
	now  func() time.Time
}

// New creates a scheduler. Jobs are registered by Start.
func New(db *sql.DB, cfg Config, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		db:   db,
		cfg:  cfg,
		log:  log,
		now:  time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.BackupCron, s.backupJob); err != nil {
		return fmt.Errorf("scheduling backup %q: %w", s.cfg.BackupCron, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.DigestCron, s.digestJob); err != nil {
		return fmt.Errorf("scheduling digest %q: %w", s.cfg.DigestCron, err)
	}

	s.log.Info().
		Str("backup", s.cfg.BackupCron).
		Str("digest", s.cfg.DigestCron).
		Msg("starting scheduler")
	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	s.log.Info().Msg("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) backupJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.Backup(ctx); err != nil {
		s.log.Error().Err(err).Msg("daily backup failed")
	}
}

func (s *Scheduler) digestJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.Digest(ctx); err != nil {
		s.log.Error().Err(err).Msg("daily digest failed")
	}
}

// Backup writes today's backup unless one already exists.
func (s *Scheduler) Backup(ctx context.Context) (string, error) {
	path, err := store.BackupOncePerDay(ctx, s.db, s.cfg.BackupDir, s.now())
	if err != nil {
		return "", err
	}
	if path == "" {
		s.log.Debug().Msg("backup already taken today")
		return "", nil
	}
	s.log.Info().Str("path", path).Msg("daily backup written")
	return path, nil
}

// Digest evaluates the current records, logs the alert counts and verdicts,
// and purges expired token revocations.
func (s *Scheduler) Digest(ctx context.Context) (readiness.Report, error) {
	now := s.now()
	snap, err := store.LoadSnapshot(ctx, s.db, 0, now)
	if err != nil {
		return readiness.Report{}, fmt.Errorf("loading snapshot: %w", err)
	}
	report := readiness.Evaluate(snap, now)

	evt := s.log.Info()
	if !report.Alerts.Empty() {
		evt = s.log.Warn()
	}
	evt.
		Int("expired", report.Counts.Expired).
		Int("expiring_soon", report.Counts.ExpiringSoon).
		Int("out_of_stock", report.Counts.OutOfStock).
		Int("low_stock", report.Counts.LowStock).
		Int("exchange_overdue", report.Counts.ExchangeOverdue).
		Int("exchange_due_soon", report.Counts.ExchangeDueSoon).
		Str("fleet", string(report.Fleet.Verdict)).
		Msg("daily digest")

	for _, b := range report.Bundles {
		if !b.Ready() {
			s.log.Warn().Str("bundle", b.Bundle).Strs("blockers", b.Blockers).Msg("bundle not ready")
		}
	}
	if report.Warnings.Total() > 0 {
		s.log.Warn().
			Int("malformed_dates", report.Warnings.MalformedDates).
			Int("malformed_stock", report.Warnings.MalformedStock).
			Strs("samples", report.Warnings.Samples).
			Msg("records with unreadable values")
	}

	if _, err := store.PurgeRevokedTokens(ctx, s.db, now); err != nil {
		s.log.Error().Err(err).Msg("purging revoked tokens")
	}
	if err := store.SetSetting(ctx, s.db, store.SettingLastDigestDate, readiness.FormatDate(now)); err != nil {
		return report, err
	}
	return report, nil
}
