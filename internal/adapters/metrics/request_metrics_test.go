package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/chaincommand-go/internal/application/mediator"
)

type sampleRequest struct{ fail bool }

func TestPrometheusMiddleware_CountsByRequestAndStatus(t *testing.T) {
	InitRegistry()
	t.Cleanup(func() { Registry = nil })
	c := NewRequestMetricsCollector()
	require.NoError(t, c.Register())

	mw := PrometheusMiddleware(c)
	next := func(_ context.Context, r mediator.Request) (mediator.Response, error) {
		if r.(*sampleRequest).fail {
			return nil, errors.New("boom")
		}
		return "ok", nil
	}

	_, err := mw(context.Background(), &sampleRequest{}, next)
	require.NoError(t, err)
	_, err = mw(context.Background(), &sampleRequest{}, next)
	require.NoError(t, err)
	_, err = mw(context.Background(), &sampleRequest{fail: true}, next)
	require.Error(t, err)

	assert.Equal(t, 2.0, valueOf(t, c.requestsTotal.WithLabelValues("sampleRequest", "success")))
	assert.Equal(t, 1.0, valueOf(t, c.requestsTotal.WithLabelValues("sampleRequest", "error")))
}

func TestPrometheusMiddleware_NilCollectorPassesThrough(t *testing.T) {
	mw := PrometheusMiddleware(nil)

	resp, err := mw(context.Background(), &sampleRequest{}, func(context.Context, mediator.Request) (mediator.Response, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestExtractRequestName(t *testing.T) {
	assert.Equal(t, "sampleRequest", extractRequestName(&sampleRequest{}))
	assert.Equal(t, "UnknownRequest", extractRequestName(nil))
}
