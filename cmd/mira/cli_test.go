package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/mira"
	main "github.com/fwojciec/mira/cmd/mira"
	"github.com/fwojciec/mira/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCommands = []string{"ask", "train", "import", "list", "chat"}

// newTestMain returns a Main backed by a store in a temp directory.
func newTestMain(t *testing.T, storePath string) *main.Main {
	t.Helper()

	cfg := main.DefaultConfig()
	cfg.Store = storePath
	cfg.Fallback = main.FallbackNone

	m := main.NewMain()
	m.Config = cfg
	m.Stdin = strings.NewReader("")
	m.Getenv = func(string) string { return "" }
	return m
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range allCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help shows kong output", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t, filepath.Join(t.TempDir(), "database.json"))
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		for _, cmd := range allCommands {
			assert.Contains(t, stdout.String(), cmd)
		}
	})

	t.Run("no args returns error", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t, filepath.Join(t.TempDir(), "database.json"))

		err := m.Run(context.Background(), []string{}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("trained answer survives restart", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "database.json")

		err := newTestMain(t, path).Run(context.Background(), []string{"train", "Wie heißt du?", "Ich heiße Mira."}, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)

		stdout := &bytes.Buffer{}
		err = newTestMain(t, path).Run(context.Background(), []string{"ask", "WIE", "HEIßT", "DU?"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)

		assert.Equal(t, "Ich heiße Mira.\n", stdout.String())
	})

	t.Run("fuzzy question is answered from store", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "database.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"wie heißt du": "Mira"}`), 0644))

		stdout := &bytes.Buffer{}
		err := newTestMain(t, path).Run(context.Background(), []string{"ask", "wie", "heist", "du"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "Mira\n", stdout.String())
	})

	t.Run("unknown question goes to fallback", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t, filepath.Join(t.TempDir(), "database.json"))
		m.Fallback = &mock.FallbackResolver{
			ResolveFn: func(_ context.Context, query string) mira.FallbackResult {
				assert.Equal(t, "berlin", query)
				return mira.Answer("Berlin ist die Hauptstadt Deutschlands.")
			},
		}
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"ask", "Berlin"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "Berlin ist die Hauptstadt Deutschlands.\n", stdout.String())
	})

	t.Run("malformed store is fatal", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "database.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))
		stderr := &bytes.Buffer{}

		err := newTestMain(t, path).Run(context.Background(), []string{"list"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Equal(t, mira.EMALFORMED, mira.ErrorCode(err))
		assert.Contains(t, stderr.String(), "Hint:")
	})

	t.Run("recover starts with empty store", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "database.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newTestMain(t, path).Run(context.Background(), []string{"--recover", "list"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No questions found")
		assert.Contains(t, stderr.String(), "starting with empty store")
	})

	t.Run("sqlite store selected by extension", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "mira.db")

		err := newTestMain(t, path).Run(context.Background(), []string{"train", "Hallo", "Hi!"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)

		stdout := &bytes.Buffer{}
		err = newTestMain(t, path).Run(context.Background(), []string{"list"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)

		assert.Equal(t, "hallo\n", stdout.String())
	})

	t.Run("threshold flag overrides config", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "database.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"wie heißt du": "Mira"}`), 0644))
		stdout := &bytes.Buffer{}

		err := newTestMain(t, path).Run(context.Background(), []string{"--threshold", "0.99", "ask", "wie heist du"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, mira.NotFoundMessage+"\n", stdout.String())
	})

	t.Run("invalid threshold flag is rejected", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t, filepath.Join(t.TempDir(), "database.json"))

		err := m.Run(context.Background(), []string{"--threshold", "1.5", "list"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Equal(t, mira.EINVALID, mira.ErrorCode(err))
	})
}
