// Package worker defines worker contracts for concurrent record scoring.
package worker

import (
	"github.com/MrHarBear/riskboard/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithOnProcessed registers a hook invoked after each successfully scored
// and collected record. The pool uses it for throughput tracking.
func WithOnProcessed(hook func()) Option {
	return func(w *InMemoryWorker) {
		if hook != nil {
			w.onProcessed = hook
		}
	}
}
