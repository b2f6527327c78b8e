package mira_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fwojciec/mira"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := mira.Errorf(mira.ENOTFOUND, "question %q not found", "test")

	assert.Equal(t, mira.ENOTFOUND, mira.ErrorCode(err))
	assert.Equal(t, "question \"test\" not found", mira.ErrorMessage(err))
}

func TestError_ErrorSurvivesWrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("failed to load store: %w", mira.Errorf(mira.EMALFORMED, "invalid json"))

	assert.Equal(t, "failed to load store: mira error: code=EMALFORMED message=invalid json", err.Error())
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, mira.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, mira.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("load store: %w", mira.Errorf(mira.EMALFORMED, "bad json"))

	assert.Equal(t, mira.EMALFORMED, mira.ErrorCode(err))
	assert.Equal(t, "bad json", mira.ErrorMessage(err))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("disk full")

	assert.Equal(t, mira.EINTERNAL, mira.ErrorCode(err))
	assert.Equal(t, "disk full", mira.ErrorMessage(err))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("folds case", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "wie heißt du?", mira.Normalize("Wie heißt DU?"))
	})

	t.Run("keeps whitespace and punctuation", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "  hallo,  welt! ", mira.Normalize("  Hallo,  Welt! "))
	})
}

func TestNoFallback_Resolve(t *testing.T) {
	t.Parallel()

	result := mira.NoFallback{}.Resolve(context.Background(), "anything")

	assert.Equal(t, mira.FallbackNotFound, result.Kind)
}
