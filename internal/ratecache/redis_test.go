package ratecache

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rates-api-go/pkg/logger"
)

func TestDecode(t *testing.T) {
	rates, err := decode([]byte(`[{"day":"2016-01-01","average_price":1112},{"day":"2016-01-02","average_price":null}]`))
	require.NoError(t, err)
	require.Len(t, rates, 2)

	assert.Equal(t, "2016-01-01", rates[0].Day.String())
	require.NotNil(t, rates[0].AveragePrice)
	assert.Equal(t, int64(1112), *rates[0].AveragePrice)
	assert.Nil(t, rates[1].AveragePrice)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "null", "{", `[{"day":"yesterday"}]`} {
		_, err := decode([]byte(raw))
		assert.Error(t, err, raw)
	}
}

func TestNewRequiresAddress(t *testing.T) {
	_, err := New(context.Background(), "", time.Minute, logger.Nop())
	assert.Error(t, err)
}

func TestUnreachableRedisReturnsErrors(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	cache := NewWithClient(rdb, time.Minute, logger.Nop())
	defer cache.Close()

	_, ok, err := cache.Get(context.Background(), "rates:v1:k")
	assert.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, cache.Set(context.Background(), "rates:v1:k", nil))
}
