package provider

import "log/slog"

// Option configures a Container.
type Option func(*options)

type options struct {
	logger *slog.Logger
	name   string
}

// WithLogger makes the container log Manage calls at debug level.
// A nil logger keeps the default, which discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName labels the container in log records, usually with the host type.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func defaultOptions() options {
	return options{logger: slog.New(slog.DiscardHandler)}
}
