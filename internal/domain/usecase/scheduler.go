package usecase

import (
	"fmt"
	"sync"
	"time"
)

// Scheduler fires collection cycles at a whole-second cadence. Exactly one
// ticker is live at any instant: Reschedule swaps it under the mutex, so
// the partially-elapsed wait of the old cadence is discarded. Cycles
// already in flight are unaffected by a swap.
type Scheduler struct {
	mu       sync.Mutex
	interval int
	stop     chan struct{}
	run      func()
}

func NewScheduler(run func()) *Scheduler {
	return &Scheduler{run: run}
}

// Start begins firing every intervalSeconds. Starting an already running
// scheduler replaces the cadence, same as Reschedule.
func (s *Scheduler) Start(intervalSeconds int) error {
	return s.Reschedule(intervalSeconds)
}

// Reschedule atomically installs a new cadence, effective immediately.
func (s *Scheduler) Reschedule(intervalSeconds int) error {
	if intervalSeconds < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, intervalSeconds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
	}

	s.interval = intervalSeconds
	stop := make(chan struct{})
	s.stop = stop

	ticker := time.NewTicker(time.Duration(intervalSeconds) * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case <-stop:
					// Cancelled while a tick was already pending.
					return
				default:
				}
				// Cycles may overlap each other and manual triggers.
				go s.run()
			}
		}
	}()

	return nil
}

// TriggerNow runs one cycle synchronously, independent of the cadence.
func (s *Scheduler) TriggerNow() {
	s.run()
}

func (s *Scheduler) GetInterval() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Stop cancels future firings. In-flight cycles run to completion.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}
