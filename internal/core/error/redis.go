package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// WrapRedis classifies a failed session store command. op names the command
// (hget, hset) and is kept in the wrapped error for logs.
//
//	redis.Nil               404
//	deadline or cancel      504
//	anything else           502
func WrapRedis(op string, err error) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("redis %s: %w", op, err)

	switch {
	case errors.Is(err, redis.Nil):
		return &AppError{Err: wrapped, Status: http.StatusNotFound, Message: RedisNotFoundMessage, Kind: KindStorage}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &AppError{Err: wrapped, Status: http.StatusGatewayTimeout, Message: RedisTimeoutMessage, Kind: KindStorage}
	default:
		return &AppError{Err: wrapped, Status: http.StatusBadGateway, Message: RedisErrorMessage, Kind: KindStorage}
	}
}
