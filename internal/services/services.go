// Package services collects the small amount of genuinely global state this
// module needs (config, logger, stop signal, instance id) into a single struct
// built once at startup, rather than package-level globals.
package services

import (
	"github.com/df-mc/atomic"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/go-mclib/server/internal/config"
)

// Services is built and used by cmd/server. The internal packages do not take
// it: they log through logrus's standard logger and do not observe its
// shutdown flag.
type Services struct {
	Log        *logrus.Logger
	Config     config.Core
	InstanceID uuid.UUID

	stopping atomic.Bool
}

// New builds a Services with a fresh instance id and a logger configured the way
// the rest of the pack configures logrus: text formatter, info level by default.
func New(cfg config.Core) *Services {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	s := &Services{
		Log:        log,
		Config:     cfg,
		InstanceID: uuid.New(),
	}
	s.Log.WithField("instance", s.InstanceID).Info("services initialized")
	return s
}

// Stopping reports whether Stop has been called.
func (s *Services) Stopping() bool { return s.stopping.Load() }

// Stop raises the shutdown flag. Idempotent.
func (s *Services) Stop() {
	if s.stopping.CAS(false, true) {
		s.Log.Info("stop signal raised")
	}
}
