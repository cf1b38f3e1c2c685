package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
	"github.com/wecarehhcs/homecare-api/providers"
)

// staleJobAge is how long a pending job may sit before it is failed out.
const staleJobAge = time.Hour

// Scheduler drains queued aadhaar verification jobs in the background
type Scheduler struct {
	cron       *cron.Cron
	JDB        databases.VerificationJobDatabase
	NDB        databases.NurseProfileDatabase
	LockDB     databases.SchedulerLockDatabase
	Verifier   providers.AadhaarVerifier
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	jDB databases.VerificationJobDatabase,
	nDB databases.NurseProfileDatabase,
	lockDB databases.SchedulerLockDatabase,
	verifier providers.AadhaarVerifier,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		JDB:        jDB,
		NDB:        nDB,
		LockDB:     lockDB,
		Verifier:   verifier,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Drain queued verification jobs every minute
	_, err := s.cron.AddFunc("* * * * *", s.processVerificationJobs)
	if err != nil {
		zap.S().Errorw("failed to register verification job", "error", err)
	}

	// Fail out jobs stuck pending, hourly
	_, err = s.cron.AddFunc("0 * * * *", s.expireStaleJobs)
	if err != nil {
		zap.S().Errorw("failed to register stale job sweep", "error", err)
	}

	s.cron.Start()
	zap.S().Info("verification scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("verification scheduler stopped")
}

// processVerificationJobs drains the pending queue under a distributed lock
// so only one instance talks to the provider at a time.
func (s *Scheduler) processVerificationJobs() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, "verification_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for verification job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("verification job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "verification_job", s.instanceID)

	jobs, err := s.JDB.Find(ctx, bson.M{"status": models.JobPending})
	if err != nil {
		zap.S().Errorw("failed to find pending verification jobs", "error", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	zap.S().Infow("draining verification jobs", "instance", s.instanceID, "count", len(jobs))

	completed, failed := 0, 0
	for _, job := range jobs {
		if s.processJob(ctx, job) {
			completed++
		} else {
			failed++
		}
	}

	zap.S().Infow("verification drain complete", "completed", completed, "failed", failed)
}

// processJob runs one provider verification and records the outcome.
func (s *Scheduler) processJob(ctx context.Context, job models.VerificationJob) bool {
	err := s.Verifier.VerifyOTP(ctx, job.ReferenceID, job.OTP)
	now := time.Now()

	if err != nil {
		_, uerr := s.JDB.UpdateOne(ctx, bson.M{"_id": job.ID}, bson.M{"$set": bson.M{
			"status":     models.JobFailed,
			"error":      err.Error(),
			"updated_at": now,
		}})
		if uerr != nil {
			zap.S().Errorw("failed to fail verification job", "jobId", job.ID.Hex(), "error", uerr)
		}
		zap.S().Warnw("aadhaar verification failed", "jobId", job.ID.Hex(), "nurseId", job.NurseID.Hex(), "error", err)
		return false
	}

	_, err = s.NDB.UpdateOne(ctx, bson.M{"_id": job.NurseID}, bson.M{"$set": bson.M{
		"aadhaar_verified": true,
		"updated_at":       now,
	}})
	if err != nil {
		zap.S().Errorw("failed to mark nurse verified", "nurseId", job.NurseID.Hex(), "error", err)
	}

	_, err = s.JDB.UpdateOne(ctx, bson.M{"_id": job.ID}, bson.M{"$set": bson.M{
		"status":     models.JobCompleted,
		"updated_at": now,
	}})
	if err != nil {
		zap.S().Errorw("failed to complete verification job", "jobId", job.ID.Hex(), "error", err)
	}

	zap.S().Infow("aadhaar verified", "jobId", job.ID.Hex(), "nurseId", job.NurseID.Hex())
	return true
}

// expireStaleJobs fails jobs that have sat pending too long. Provider OTPs
// expire quickly, retrying them later cannot succeed.
func (s *Scheduler) expireStaleJobs() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, "stale_job_sweep", s.instanceID, 5*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for stale job sweep", "error", err)
		return
	}
	if !acquired {
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "stale_job_sweep", s.instanceID)

	cutoff := time.Now().Add(-staleJobAge)
	jobs, err := s.JDB.Find(ctx, bson.M{
		"status":     models.JobPending,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		zap.S().Errorw("failed to find stale verification jobs", "error", err)
		return
	}

	for _, job := range jobs {
		_, err := s.JDB.UpdateOne(ctx, bson.M{"_id": job.ID}, bson.M{"$set": bson.M{
			"status":     models.JobFailed,
			"error":      "verification timed out",
			"updated_at": time.Now(),
		}})
		if err != nil {
			zap.S().Errorw("failed to expire verification job", "jobId", job.ID.Hex(), "error", err)
		}
	}

	if len(jobs) > 0 {
		zap.S().Infow("expired stale verification jobs", "count", len(jobs))
	}
}
