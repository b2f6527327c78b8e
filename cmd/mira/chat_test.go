package main_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fwojciec/mira"
	main "github.com/fwojciec/mira/cmd/mira"
	"github.com/fwojciec/mira/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(out io.Writer, resolver mira.Resolver, trainer mira.Trainer) *main.Session {
	return &main.Session{
		ID:       "test-session",
		Resolver: resolver,
		Trainer:  trainer,
		Out:      out,
		Logger:   slog.New(slog.DiscardHandler),
	}
}

func echoResolver() *mock.Resolver {
	return &mock.Resolver{
		ResolveFn: func(_ context.Context, query string) *mira.Resolution {
			return &mira.Resolution{Query: query, Answer: "Antwort auf " + query, Tier: mira.TierExact}
		},
	}
}

func TestSession_Run(t *testing.T) {
	t.Parallel()

	t.Run("answers each message until exit", func(t *testing.T) {
		t.Parallel()

		out := &bytes.Buffer{}
		s := newSession(out, echoResolver(), &mock.Trainer{})

		err := s.Run(context.Background(), strings.NewReader("hallo\n\nexit\nnie gelesen\n"))

		require.NoError(t, err)
		transcript := out.String()
		assert.Contains(t, transcript, "Mira: schreibt...\nMira: Antwort auf hallo\n")
		assert.NotContains(t, transcript, "nie gelesen")
		assert.Equal(t, 1, strings.Count(transcript, "Mira: Antwort"))
	})

	t.Run("quit ends session", func(t *testing.T) {
		t.Parallel()

		resolver := &mock.Resolver{
			ResolveFn: func(context.Context, string) *mira.Resolution {
				t.Fatal("resolver must not be called")
				return nil
			},
		}

		s := newSession(&bytes.Buffer{}, resolver, &mock.Trainer{})

		err := s.Run(context.Background(), strings.NewReader("QUIT\n"))

		require.NoError(t, err)
	})

	t.Run("end of input ends session", func(t *testing.T) {
		t.Parallel()

		out := &bytes.Buffer{}
		s := newSession(out, echoResolver(), &mock.Trainer{})

		err := s.Run(context.Background(), strings.NewReader("hallo"))

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Mira: Antwort auf hallo\n")
	})

	t.Run("train command stores answer", func(t *testing.T) {
		t.Parallel()

		var gotQuestion, gotAnswer string
		trainer := &mock.Trainer{
			TrainFn: func(_ context.Context, question, answer string) error {
				gotQuestion, gotAnswer = question, answer
				return nil
			},
		}

		out := &bytes.Buffer{}
		s := newSession(out, echoResolver(), trainer)

		err := s.Run(context.Background(), strings.NewReader("/train Lieblingsfarbe = Blau = Grün\n"))

		require.NoError(t, err)
		assert.Equal(t, "Lieblingsfarbe", gotQuestion)
		assert.Equal(t, "Blau = Grün", gotAnswer)
		assert.Contains(t, out.String(), "Mira: Danke, das merke ich mir.\n")
	})

	t.Run("train without separator shows usage", func(t *testing.T) {
		t.Parallel()

		trainer := &mock.Trainer{
			TrainFn: func(context.Context, string, string) error {
				t.Fatal("trainer must not be called")
				return nil
			},
		}

		out := &bytes.Buffer{}
		s := newSession(out, echoResolver(), trainer)

		err := s.Run(context.Background(), strings.NewReader("/train nur eine Frage\n"))

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Verwendung: /train Frage = Antwort")
	})

	t.Run("message starting with train word is answered", func(t *testing.T) {
		t.Parallel()

		trainer := &mock.Trainer{
			TrainFn: func(context.Context, string, string) error {
				t.Error("trainer must not be called")
				return nil
			},
		}

		out := &bytes.Buffer{}
		s := newSession(out, echoResolver(), trainer)

		err := s.Run(context.Background(), strings.NewReader("/trainieren macht Spaß\n"))

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Mira: Antwort auf /trainieren macht Spaß\n")
		assert.NotContains(t, out.String(), "Verwendung")
	})

	t.Run("bare train command shows usage", func(t *testing.T) {
		t.Parallel()

		out := &bytes.Buffer{}
		s := newSession(out, echoResolver(), &mock.Trainer{})

		err := s.Run(context.Background(), strings.NewReader("/train\n"))

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Verwendung: /train Frage = Antwort")
	})

	t.Run("train failure is rendered", func(t *testing.T) {
		t.Parallel()

		trainer := &mock.Trainer{
			TrainFn: func(context.Context, string, string) error {
				return mira.Errorf(mira.EINTERNAL, "failed to save store: disk full")
			},
		}

		out := &bytes.Buffer{}
		s := newSession(out, echoResolver(), trainer)

		err := s.Run(context.Background(), strings.NewReader("/train a = b\n"))

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Mira: Fehler beim Zugriff auf die Wissensdatenbank: failed to save store: disk full\n")
	})

	t.Run("cancellation stops waiting for input", func(t *testing.T) {
		t.Parallel()

		pr, pw := io.Pipe()
		t.Cleanup(func() { _ = pw.Close() })

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := newSession(&bytes.Buffer{}, echoResolver(), &mock.Trainer{})
		err := s.Run(ctx, pr)

		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestMain_Run_Chat(t *testing.T) {
	t.Parallel()

	m := newTestMain(t, t.TempDir()+"/database.json")
	m.Stdin = strings.NewReader("/train Wie heißt du? = Mira\nwie heist du\nexit\n")
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"chat"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Mira: Danke, das merke ich mir.\n")
	assert.Contains(t, stdout.String(), "Mira: Mira\n")
}
