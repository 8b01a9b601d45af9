package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	ErrNoSeed             = errors.New("no seed url configured")
	ErrInvalidMaxPages    = errors.New("invalid max_pages: must be at least 1")
	ErrInvalidWorkers     = errors.New("invalid workers: must be at least 1")
	ErrInvalidDepth       = errors.New("invalid max_depth_per_domain: must be non-negative")
	ErrInvalidHops        = errors.New("invalid max_domain_hops: must be non-negative")
	ErrInvalidTimeout     = errors.New("invalid fetch timeout: must be positive")
	ErrInvalidMaxBody     = errors.New("invalid max_body_bytes: must be non-negative")
	ErrInvalidRedirects   = errors.New("invalid max_redirects: must be non-negative")
	ErrInvalidRate        = errors.New("invalid requests_per_second: must be non-negative")
	ErrInvalidOutput      = errors.New("invalid output: file path must be set")
	ErrInvalidStatsPeriod = errors.New("invalid stats_interval: must be non-negative")
)
