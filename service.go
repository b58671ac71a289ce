package primecount

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/primecount/internal/logging"
	"github.com/viant/primecount/predicate"
	"github.com/viant/primecount/progress"
)

// Service represents a configured prime counter.
type Service struct {
	runtime    *Runtime
	config     *Config
	predicate  predicate.Func
	logger     logrus.FieldLogger
	fs         afs.Service
	fsOptions  []storage.Option
	onProgress func(progress.Progress)
	initErrs   []error
}

// New creates a service with the default configuration modified by options.
func New(options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig()}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := errors.Join(s.initErrs...); err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	s.ensureBaseSetup()
	s.runtime = &Runtime{
		config:     *s.config,
		predicate:  s.predicate,
		logger:     s.logger,
		fs:         s.fs,
		fsOptions:  s.fsOptions,
		onProgress: s.onProgress,
	}
	return nil
}

func (s *Service) ensureBaseSetup() {
	if s.predicate == nil {
		s.predicate = predicate.IsPrime
	}
	s.logger = logging.OrDiscard(s.logger)
	if s.fs == nil {
		s.fs = afs.New()
	}
}

// Config returns a copy of the effective configuration.
func (s *Service) Config() Config {
	return *s.config
}

// Runtime returns the runtime executing runs.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}
