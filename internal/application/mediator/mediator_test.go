package mediator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geode-planner/internal/application/mediator"
)

type pingCommand struct{ value int }

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return request.(*pingCommand).value * 2, nil
}

func TestMediator_SendDispatchesByType(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingCommand](med, pingHandler{}))

	resp, err := med.Send(context.Background(), &pingCommand{value: 21})

	require.NoError(t, err)
	assert.Equal(t, 42, resp)
}

func TestMediator_RejectsDuplicateAndUnknown(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingCommand](med, pingHandler{}))

	assert.Error(t, mediator.RegisterHandler[*pingCommand](med, pingHandler{}))

	_, err := med.Send(context.Background(), &struct{}{})
	assert.Error(t, err)

	_, err = med.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingCommand](med, pingHandler{}))

	var calls []string
	trace := func(name string) mediator.Middleware {
		return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			calls = append(calls, name+":before")
			resp, err := next(ctx, request)
			calls = append(calls, name+":after")
			return resp, err
		}
	}
	med.RegisterMiddleware(trace("outer"))
	med.RegisterMiddleware(trace("inner"))

	_, err := med.Send(context.Background(), &pingCommand{value: 1})

	require.NoError(t, err)
	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, calls)
}
