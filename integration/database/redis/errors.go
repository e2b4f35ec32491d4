package redis

import "errors"

// Errors returned by ParseOptions, Connect and Healthcheck. The underlying
// go-redis error is joined to each, so errors.Is matches both.
var (
	ErrEmptyConnectionURL           = errors.New("redis: connection URL is empty, set REDIS_URL")
	ErrUnsupportedScheme            = errors.New("redis: connection URL must use redis:// or rediss://")
	ErrFailedToParseRedisConnString = errors.New("redis: failed to parse connection URL")
	ErrRedisNotReady                = errors.New("redis: server did not answer PING in time")
	ErrHealthcheckFailed            = errors.New("redis: healthcheck failed")
)
