// Package scheduler holds the timer component driving daily operation. The
// engine itself keeps no ambient job state; jobs are registered here by name
// and invoke plain engine entry points.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is one scheduled invocation function.
type Job func()

type Scheduler struct {
	cron    *cron.Cron
	log     *logrus.Logger
	entries map[string]cron.EntryID
}

func New(log *logrus.Logger) *Scheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		log:     log,
		entries: make(map[string]cron.EntryID),
	}
}

// Register adds a named job on a cron spec (with seconds field). Registering
// the same name twice is an error.
func (s *Scheduler) Register(name, spec string, job Job) error {
	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	id, err := s.cron.AddFunc(spec, func() {
		s.log.WithField("job", name).Debug("running scheduled job")
		job()
	})
	if err != nil {
		return fmt.Errorf("register job %q: %w", name, err)
	}

	s.entries[name] = id
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the scheduler; running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}
