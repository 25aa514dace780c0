package background

import (
	"context"
	"log"
	"sync"
	"time"

	"leadscout/internal/repositories"
	"leadscout/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// staleUploadAge is how long a staged upload may sit without a commit before
// the cleanup job drops it.
const staleUploadAge = 1 * time.Hour

// JobScheduler manages recurring background jobs
type JobScheduler struct {
	scheduler      gocron.Scheduler
	datasetRepo    repositories.DatasetRepository
	datasetService services.DatasetService
	importService  services.ImportService
	jobs           map[string]gocron.Job
	mu             sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(datasetRepo repositories.DatasetRepository, datasetService services.DatasetService, importService services.ImportService) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:      scheduler,
		datasetRepo:    datasetRepo,
		datasetService: datasetService,
		importService:  importService,
		jobs:           make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Dataset summary refresh - every 10 minutes
	summaryJob, err := js.scheduler.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(js.refreshDatasetSummaries, context.Background()),
		gocron.WithName("dataset-summary-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create summary refresh job: %v", err)
	} else {
		js.jobs["summary-refresh"] = summaryJob
	}

	// Stale staged-upload cleanup - every 30 minutes
	cleanupJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.cleanupStaleUploads),
		gocron.WithName("stale-upload-cleanup"),
	)
	if err != nil {
		log.Printf("Failed to create upload cleanup job: %v", err)
	} else {
		js.jobs["upload-cleanup"] = cleanupJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// refreshDatasetSummaries recomputes the provider/status rollup for every
// dataset so the summary endpoint mostly serves from cache.
func (js *JobScheduler) refreshDatasetSummaries(ctx context.Context) error {
	log.Printf("Starting dataset summary refresh")

	datasets, err := js.datasetRepo.List(ctx)
	if err != nil {
		log.Printf("Failed to list datasets for summary refresh: %v", err)
		return err
	}

	// Refresh in parallel with concurrency control
	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup

	for _, dataset := range datasets {
		wg.Add(1)
		go func(datasetID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if _, err := js.datasetService.RefreshSummary(ctx, datasetID); err != nil {
				log.Printf("Failed to refresh summary for dataset %s: %v", datasetID.String(), err)
			}
		}(dataset.ID)
	}

	wg.Wait()
	log.Printf("Completed summary refresh for %d datasets", len(datasets))
	return nil
}

// cleanupStaleUploads drops staged uploads whose commit never arrived.
func (js *JobScheduler) cleanupStaleUploads() error {
	removed := js.importService.CleanupStaleUploads(staleUploadAge)
	if removed > 0 {
		log.Printf("Upload cleanup removed %d stale staged uploads", removed)
	}
	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]interface{})
	status["total_jobs"] = len(js.jobs)
	jobs := make([]string, 0, len(js.jobs))

	for name := range js.jobs {
		jobs = append(jobs, name)
	}

	status["jobs"] = jobs

	return status
}
