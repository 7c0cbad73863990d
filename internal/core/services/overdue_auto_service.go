package services

import (
	"context"
	"log"
	"time"

	"smart-elib/internal/config"

	"github.com/robfig/cron/v3"
)

// OverdueAutoService runs the nightly maintenance jobs: overdue
// recalculation and catalog availability sync
type OverdueAutoService struct {
	reportService *ReportService
	cfg           *config.Config
	cron          *cron.Cron
}

// NewOverdueAutoService creates a new overdue auto service
func NewOverdueAutoService(reportService *ReportService, cfg *config.Config) *OverdueAutoService {
	return &OverdueAutoService{
		reportService: reportService,
		cfg:           cfg,
		cron:          cron.New(),
	}
}

// Start registers and starts the cron schedule
func (s *OverdueAutoService) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Cron.OverdueRecalcSpec, s.runNightly)
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("✅ Overdue scheduler started [spec: %s]", s.cfg.Cron.OverdueRecalcSpec)
	return nil
}

// Stop stops the cron scheduler and waits for a running job to finish
func (s *OverdueAutoService) Stop() {
	ctx := s.cron.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		log.Println("⚠️ Overdue scheduler stop timed out")
	}

	log.Println("🛑 Overdue scheduler stopped")
}

// runNightly is the scheduled job body
func (s *OverdueAutoService) runNightly() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.reportService.CalculateOverdues(ctx); err != nil {
		log.Printf("❌ Nightly overdue recalculation failed: %v", err)
	}

	if _, err := s.reportService.SyncBookAvailability(ctx); err != nil {
		log.Printf("❌ Nightly book sync failed: %v", err)
	}
}
