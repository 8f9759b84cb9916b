package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// TriggerSpec describes when a job fires. SendTime is a time of day in
// "15:04" form. A once job fires a single time at the next occurrence of
// SendTime; recurring frequencies fire at SendTime until FinishAt, or
// indefinitely when FinishAt is nil.
type TriggerSpec struct {
	SendTime  string
	Frequency string // once, daily, weekly, monthly
	FinishAt  *time.Time
}

// Scheduler registers and cancels jobs keyed by an integer identifier.
// Implementable against any job-scheduling backend; the service ships with
// the in-process TimerScheduler below.
type Scheduler interface {
	Register(jobID uint, spec TriggerSpec, fn func()) error
	Cancel(jobID uint)
	Has(jobID uint) bool
}

type job struct {
	timer *time.Timer
}

// TimerScheduler runs jobs in-process, one timer per job.
type TimerScheduler struct {
	mu   sync.Mutex
	jobs map[uint]*job
	now  func() time.Time
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{
		jobs: make(map[uint]*job),
		now:  time.Now,
	}
}

// Register registers a job under the given ID. An existing job under the
// same ID is cancelled first, so re-registering never leaves duplicates.
func (s *TimerScheduler) Register(jobID uint, spec TriggerSpec, fn func()) error {
	next, err := nextRun(s.now(), spec)
	if err != nil {
		return err
	}
	if next == nil {
		return fmt.Errorf("trigger for job %d is already past its finish time", jobID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(jobID)
	s.scheduleLocked(jobID, spec, fn, *next)

	logrus.Infof("Job %d registered, next run at %s", jobID, next.Format(time.RFC3339))
	return nil
}

// Cancel removes the job registered under the given ID.
// Cancelling an unknown ID is a no-op.
func (s *TimerScheduler) Cancel(jobID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelLocked(jobID) {
		logrus.Infof("Job %d cancelled", jobID)
	}
}

// Has reports whether a job is registered under the given ID
func (s *TimerScheduler) Has(jobID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[jobID]
	return ok
}

// Stop cancels every registered job
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.jobs {
		s.cancelLocked(id)
	}
}

func (s *TimerScheduler) cancelLocked(jobID uint) bool {
	j, ok := s.jobs[jobID]
	if !ok {
		return false
	}
	j.timer.Stop()
	delete(s.jobs, jobID)
	return true
}

func (s *TimerScheduler) scheduleLocked(jobID uint, spec TriggerSpec, fn func(), at time.Time) {
	j := &job{}
	j.timer = time.AfterFunc(time.Until(at), func() {
		s.fire(jobID, j, spec, fn, at)
	})
	s.jobs[jobID] = j
}

func (s *TimerScheduler) fire(jobID uint, j *job, spec TriggerSpec, fn func(), firedAt time.Time) {
	fn()

	s.mu.Lock()
	defer s.mu.Unlock()
	// The job may have been cancelled or replaced while fn ran; a replacement
	// under the same ID must not be touched by the old timer
	if s.jobs[jobID] != j {
		return
	}
	delete(s.jobs, jobID)

	if spec.Frequency == "once" {
		return
	}
	next := advance(firedAt, spec)
	if next == nil {
		logrus.Infof("Job %d finished its schedule", jobID)
		return
	}
	s.scheduleLocked(jobID, spec, fn, *next)
}

// NextRun reports the first fire time of the trigger on or after now, nil
// when the schedule is already over. Lets callers reject a trigger that
// would never fire without registering it.
func NextRun(now time.Time, spec TriggerSpec) (*time.Time, error) {
	return nextRun(now, spec)
}

// nextRun computes the first fire time on or after now: the next occurrence
// of the trigger's time of day. Returns nil when the schedule is already over.
func nextRun(now time.Time, spec TriggerSpec) (*time.Time, error) {
	tod, err := time.Parse("15:04", spec.SendTime)
	if err != nil {
		return nil, fmt.Errorf("invalid send time %q: %w", spec.SendTime, err)
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), tod.Hour(), tod.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	if spec.FinishAt != nil && next.After(*spec.FinishAt) {
		return nil, nil
	}
	return &next, nil
}

// advance computes the fire time after the given one, nil when the schedule
// is over
func advance(after time.Time, spec TriggerSpec) *time.Time {
	var next time.Time
	switch spec.Frequency {
	case "daily":
		next = after.Add(24 * time.Hour)
	case "weekly":
		next = after.Add(7 * 24 * time.Hour)
	case "monthly":
		next = after.AddDate(0, 1, 0)
	default:
		return nil
	}
	if spec.FinishAt != nil && next.After(*spec.FinishAt) {
		return nil
	}
	return &next
}
