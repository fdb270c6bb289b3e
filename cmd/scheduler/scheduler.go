package main

import (
	"context"
	"fmt"
	"time"

	"github.com/resourcehub/backend/internal/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// homeWarmSpec rebuilds the homepage cache a little more often than its default TTL
const homeWarmSpec = "@every 5m"

// jobTimeout bounds a single run of any job
const jobTimeout = 2 * time.Minute

// OrphanSweeper removes stored objects no resource points to
type OrphanSweeper interface {
	// SweepOrphans deletes unreferenced objects older than the configured age
	//
	// If listing, reference checks or deletes fail, the number removed so far is returned together with the error.
	SweepOrphans(ctx context.Context) (int, error)
}

// HomeWarmer rebuilds the cached homepage
type HomeWarmer interface {
	// Warm rebuilds the homepage sections and stores them in the cache
	//
	// If the sections cannot be built, the error will be returned together with "nil" value.
	Warm(ctx context.Context) (*models.HomePage, error)
}

// Scheduler runs the periodic maintenance jobs
type Scheduler struct {
	cron    *cron.Cron
	sweeper OrphanSweeper
	home    HomeWarmer
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler.
// sweepSpec is a standard cron expression or descriptor such as "@daily".
func NewScheduler(sweeper OrphanSweeper, home HomeWarmer, logger *zap.Logger, sweepSpec string) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
		home:    home,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(sweepSpec, s.sweepOrphans); err != nil {
		return nil, fmt.Errorf("invalid orphan sweep schedule %q: %w", sweepSpec, err)
	}
	if _, err := s.cron.AddFunc(homeWarmSpec, s.warmHome); err != nil {
		return nil, fmt.Errorf("invalid home warm schedule %q: %w", homeWarmSpec, err)
	}

	return s, nil
}

// Start starts the scheduler and warms the homepage once right away
func (s *Scheduler) Start() {
	s.warmHome()
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sweepOrphans() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := s.sweeper.SweepOrphans(ctx)
	if err != nil {
		s.logger.Error("Orphan sweep failed", zap.Int("removed", removed), zap.Error(err))
		return
	}
	s.logger.Info("Orphan sweep finished", zap.Int("removed", removed))
}

func (s *Scheduler) warmHome() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	page, err := s.home.Warm(ctx)
	if err != nil {
		s.logger.Error("Homepage warm failed", zap.Error(err))
		return
	}
	s.logger.Debug("Homepage warmed",
		zap.Int("featured_lists", len(page.FeaturedLists)),
		zap.Int("grade_sections", len(page.GradeSections)),
	)
}
