package background

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"bizledger/internal/config"
	applog "bizledger/internal/log"
	"bizledger/internal/repositories"
	"bizledger/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	jobOverdueSweep = "invoice-overdue-sweep"
	jobGstWarmup    = "gst-draft-warmup"
)

// JobScheduler runs the periodic per-organization maintenance jobs.
type JobScheduler struct {
	scheduler gocron.Scheduler
	invoices  services.InvoiceService
	gst       services.GstService
	orgRepo   repositories.OrganizationRepository
	logger    *applog.Logger
	cfg       config.JobsConfig
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(cfg config.JobsConfig, invoices services.InvoiceService, gst services.GstService,
	orgRepo repositories.OrganizationRepository, logger *applog.Logger) (*JobScheduler, error) {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	if logger == nil {
		logger = applog.Discard()
	}
	if cfg.OrganizationPool <= 0 {
		cfg.OrganizationPool = 1
	}

	js := &JobScheduler{
		scheduler: scheduler,
		invoices:  invoices,
		gst:       gst,
		orgRepo:   orgRepo,
		logger:    logger.WithComponent(applog.ComponentJobs),
		cfg:       cfg,
		now:       time.Now,
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler", "jobs", len(js.jobs))
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	if js.cfg.OverdueInterval > 0 {
		if err := js.addJob(jobOverdueSweep, js.cfg.OverdueInterval, js.sweepOverdue); err != nil {
			return err
		}
	}
	if js.cfg.GSTWarmInterval > 0 {
		if err := js.addJob(jobGstWarmup, js.cfg.GSTWarmInterval, js.warmGstDrafts); err != nil {
			return err
		}
	}
	return nil
}

func (js *JobScheduler) addJob(name string, interval time.Duration, task func(context.Context) error) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task, context.Background()),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}
	js.jobs[name] = job
	return nil
}

// sweepOverdue flips Sent invoices whose due date has passed to Overdue.
func (js *JobScheduler) sweepOverdue(ctx context.Context) error {
	asOf := js.now().UTC()
	var marked atomic.Int64

	err := js.forEachOrganization(ctx, jobOverdueSweep, func(ctx context.Context, orgID uuid.UUID) error {
		n, err := js.invoices.MarkOverdue(ctx, orgID, asOf)
		if err != nil {
			return err
		}
		marked.Add(n)
		return nil
	})
	if err != nil {
		return err
	}
	js.logger.InfoContext(ctx, "overdue sweep completed", applog.FieldJob, jobOverdueSweep, "marked", marked.Load())
	return nil
}

// warmGstDrafts recomputes the current period's GST draft so previews are served from cache.
func (js *JobScheduler) warmGstDrafts(ctx context.Context) error {
	period := js.now().UTC().Format("2006-01")
	return js.forEachOrganization(ctx, jobGstWarmup, func(ctx context.Context, orgID uuid.UUID) error {
		return js.gst.WarmDraft(ctx, orgID, period)
	})
}

// forEachOrganization runs fn for every active organization with bounded
// concurrency. Per-organization failures are logged and do not stop the run.
func (js *JobScheduler) forEachOrganization(ctx context.Context, job string, fn func(context.Context, uuid.UUID) error) error {
	orgIDs, err := js.orgRepo.ListActiveIDs(ctx)
	if err != nil {
		js.logger.ErrorContext(ctx, "failed to list organizations", applog.FieldJob, job, applog.FieldError, err.Error())
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(js.cfg.OrganizationPool)
	var failed atomic.Int64
	for _, orgID := range orgIDs {
		g.Go(func() error {
			if err := fn(gctx, orgID); err != nil {
				failed.Add(1)
				js.logger.WarnContext(gctx, "job failed for organization",
					applog.FieldJob, job,
					applog.FieldOrganizationID, orgID.String(),
					applog.FieldError, err.Error())
			}
			return nil
		})
	}
	_ = g.Wait()

	if n := failed.Load(); n > 0 && int(n) == len(orgIDs) {
		return errors.New(job + ": failed for every organization")
	}
	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       names,
	}
}
