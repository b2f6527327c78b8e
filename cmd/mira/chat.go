package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/mira"
	miraprom "github.com/fwojciec/mira/prometheus"
	"github.com/google/uuid"
)

// Chat transcript strings.
const (
	chatGreeting    = "Mira ist bereit. Tippe 'exit' zum Beenden."
	chatTyping      = "schreibt..."
	chatTrained     = "Danke, das merke ich mir."
	chatTrainUsage  = "Verwendung: /train Frage = Antwort"
	chatTrainPrefix = "/train"
)

// Run executes the chat command.
func (c *ChatCmd) Run(deps *Dependencies) error {
	ctx := deps.Ctx
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if c.MetricsAddr != "" {
		shutdown, err := serveMetrics(c.MetricsAddr, deps)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", err)
			return err
		}
		defer shutdown()
		logger.InfoContext(ctx, "serving metrics", "addr", c.MetricsAddr)
	}

	id := uuid.NewString()
	s := &Session{
		ID:       id,
		Resolver: deps.Resolver,
		Trainer:  deps.Trainer,
		Out:      deps.Stdout,
		Logger:   logger.With("session", id),
	}
	return s.Run(ctx, deps.Stdin)
}

// Session is an interactive conversation with Mira. It owns the resolver
// and trainer for its lifetime and writes a "Du:" / "Mira:" transcript.
type Session struct {
	ID       string
	Resolver mira.Resolver
	Trainer  mira.Trainer
	Out      io.Writer
	Logger   *slog.Logger
}

// Run reads messages from in until EOF, "exit" or "quit", or until ctx is
// cancelled.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.Logger.InfoContext(ctx, "chat session started")
	defer s.Logger.InfoContext(ctx, "chat session ended")

	// Stops the input reader once the session ends.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, scanErr := scanLines(ctx, in)

	fmt.Fprintln(s.Out, chatGreeting)
	for {
		fmt.Fprint(s.Out, "Du: ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.Out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.Out)
				return *scanErr
			}
			line = strings.TrimSpace(l)
		}

		switch {
		case line == "":
			continue
		case isExit(line):
			return nil
		case line == chatTrainPrefix || strings.HasPrefix(line, chatTrainPrefix+" "):
			s.train(ctx, strings.TrimPrefix(line, chatTrainPrefix))
		default:
			if err := s.reply(ctx, line); err != nil {
				return err
			}
		}
	}
}

// reply resolves message on a worker goroutine while the typing indicator
// is shown.
func (s *Session) reply(ctx context.Context, message string) error {
	done := make(chan *mira.Resolution, 1)
	go func() {
		done <- s.Resolver.Resolve(ctx, message)
	}()

	s.say(chatTyping)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-done:
		s.say(res.Answer)
		return nil
	}
}

// train handles "/train Frage = Antwort".
func (s *Session) train(ctx context.Context, args string) {
	question, answer, ok := strings.Cut(args, "=")
	question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
	if !ok || question == "" || answer == "" {
		s.say(chatTrainUsage)
		return
	}

	if err := s.Trainer.Train(ctx, question, answer); err != nil {
		s.say(mira.FormatStoreError(err))
		return
	}
	s.say(chatTrained)
}

func (s *Session) say(text string) {
	fmt.Fprintf(s.Out, "Mira: %s\n", text)
}

func isExit(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	}
	return false
}

// scanLines feeds lines from r into the returned channel until EOF or ctx is
// done. The error pointer is valid once the channel is closed.
func scanLines(ctx context.Context, r io.Reader) (<-chan string, *error) {
	lines := make(chan string)
	var scanErr error
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr = sc.Err()
	}()
	return lines, &scanErr
}

// serveMetrics starts a Prometheus endpoint on addr and returns a function
// that stops it.
func serveMetrics(addr string, deps *Dependencies) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", miraprom.Handler(deps.Gatherer))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(deps.Stderr, "metrics server: %s\n", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
