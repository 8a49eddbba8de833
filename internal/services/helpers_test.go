package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vytor/neurorecall/internal/errors"
)

// reviewTime is a Monday inside the morning peak window.
var reviewTime = time.Date(2024, time.March, 4, 10, 30, 0, 0, time.UTC)

func fixedClock() Option {
	return WithClock(func() time.Time { return reviewTime })
}

func requireAppError(t *testing.T, err error, code string) *errors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
	return appErr
}

func ptrTime(t time.Time) *time.Time { return &t }
