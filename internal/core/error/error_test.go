package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfWrappedErrors(t *testing.T) {
	base := errors.New("dial tcp: timeout")

	err := fmt.Errorf("generate: %w", Upstream(base))
	assert.Equal(t, KindUpstreamUnavailable, KindOf(err))
	assert.ErrorIs(t, err, base)

	assert.Equal(t, KindStructural, KindOf(Structural("missing %s", "wa_id")))
	assert.Equal(t, KindUnknownFunction, KindOf(UnknownFunction("delete_everything")))
	assert.Equal(t, KindArgumentDecode, KindOf(ArgumentDecode(base)))
	assert.Equal(t, KindUnknown, KindOf(base))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestNilWrappersStayNil(t *testing.T) {
	assert.NoError(t, Upstream(nil))
	assert.NoError(t, ArgumentDecode(nil))
	assert.NoError(t, Storage(nil))
	assert.NoError(t, WrapRedis("hget", nil))
}

func TestWrapRedis(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"missing key", redis.Nil, http.StatusNotFound, RedisNotFoundMessage},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, RedisTimeoutMessage},
		{"canceled", fmt.Errorf("dial: %w", context.Canceled), http.StatusGatewayTimeout, RedisTimeoutMessage},
		{"connection", errors.New("connection refused"), http.StatusBadGateway, RedisErrorMessage},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := WrapRedis("hget", c.err)

			var appErr *AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, c.status, appErr.Status)
			assert.Equal(t, c.message, appErr.Message)
			assert.Equal(t, KindStorage, appErr.Kind)
			assert.ErrorIs(t, err, c.err)
			assert.Contains(t, err.Error(), "redis hget")
		})
	}
}

func TestUnknownFunctionMessage(t *testing.T) {
	err := UnknownFunction("delete_everything")
	assert.Equal(t, `unknown function: "delete_everything" is not registered`, err.Error())
}
