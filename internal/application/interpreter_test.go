package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarthome-sim/internal/application"
	"smarthome-sim/internal/infra/keyword"
)

type pingingInterpreter struct {
	mockInterpreter
	pingErr error
}

func (p *pingingInterpreter) Name() string                 { return "model" }
func (p *pingingInterpreter) Ping(_ context.Context) error { return p.pingErr }

func TestReadyInterpreter_NoPingNeeded(t *testing.T) {
	kw := keyword.New()

	got, err := application.ReadyInterpreter(context.Background(), kw, nil, discardLogger())
	require.NoError(t, err)
	assert.Same(t, kw, got)
}

func TestReadyInterpreter_Healthy(t *testing.T) {
	model := &pingingInterpreter{}

	got, err := application.ReadyInterpreter(context.Background(), model, keyword.New(), discardLogger())
	require.NoError(t, err)
	assert.Same(t, model, got)
}

func TestReadyInterpreter_FailsFast(t *testing.T) {
	model := &pingingInterpreter{pingErr: errors.New("connection refused")}

	got, err := application.ReadyInterpreter(context.Background(), model, nil, discardLogger())
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "model interpreter unavailable")
	assert.Contains(t, err.Error(), "--test")
}

func TestReadyInterpreter_FallsBack(t *testing.T) {
	model := &pingingInterpreter{pingErr: errors.New("connection refused")}
	kw := keyword.New()

	got, err := application.ReadyInterpreter(context.Background(), model, kw, discardLogger())
	require.NoError(t, err)
	assert.Same(t, kw, got)
}
