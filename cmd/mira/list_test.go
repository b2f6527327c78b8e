package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	main "github.com/fwojciec/mira/cmd/mira"
	"github.com/fwojciec/mira/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints questions in store order", func(t *testing.T) {
		t.Parallel()

		store := &mock.Store{
			KeysFn: func(context.Context) ([]string, error) {
				return []string{"hallo", "wie heißt du"}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Store:  store,
		}

		err := (&main.ListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "hallo\nwie heißt du\n", stdout.String())
	})

	t.Run("prints hint for empty store", func(t *testing.T) {
		t.Parallel()

		store := &mock.Store{
			KeysFn: func(context.Context) ([]string, error) { return nil, nil },
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Store:  store,
		}

		err := (&main.ListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No questions found")
	})

	t.Run("reports store error", func(t *testing.T) {
		t.Parallel()

		store := &mock.Store{
			KeysFn: func(context.Context) ([]string, error) { return nil, errors.New("db locked") },
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Store:  store,
		}

		err := (&main.ListCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: db locked")
	})
}
