package main

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/fwojciec/mira"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Store    mira.Store
	Resolver mira.Resolver
	Trainer  mira.Trainer
	Gatherer prometheus.Gatherer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config    string `help:"Path to YAML config file" placeholder:"FILE"`
	Store     string `help:"Path to the knowledge store (.json, or .db for SQLite)" placeholder:"PATH"`
	Threshold string `help:"Minimum similarity for fuzzy matches (0-1)" placeholder:"RATIO"`
	Fallback  string `help:"External knowledge source: wikipedia, gemini or none"`
	Recover   bool   `help:"Start with an empty store if the store file is malformed"`
	Verbose   bool   `short:"v" help:"Enable debug logging"`

	Ask    AskCmd    `cmd:"" help:"Answer a question"`
	Train  TrainCmd  `cmd:"" help:"Teach an answer to a question"`
	Import ImportCmd `cmd:"" help:"Import question/answer pairs from JSON files"`
	List   ListCmd   `cmd:"" help:"List all known questions"`
	Chat   ChatCmd   `cmd:"" help:"Start an interactive chat session"`
}

// apply overlays command-line flags onto cfg.
func (c *CLI) apply(cfg *Config) error {
	if c.Store != "" {
		cfg.Store = c.Store
	}
	if c.Threshold != "" {
		threshold, err := strconv.ParseFloat(c.Threshold, 64)
		if err != nil {
			return mira.Errorf(mira.EINVALID, "invalid threshold %q", c.Threshold)
		}
		cfg.Threshold = threshold
	}
	if c.Fallback != "" {
		cfg.Fallback = c.Fallback
	}
	if c.Recover {
		cfg.Recover = true
	}
	if c.Verbose {
		cfg.LogLevel = "debug"
	}
	return nil
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Query []string `arg:"" help:"Question to ask"`
}

// TrainCmd is the "train" subcommand.
type TrainCmd struct {
	Question string `arg:"" help:"Question to learn"`
	Answer   string `arg:"" help:"Answer to the question"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Files []string `arg:"" help:"JSON files mapping questions to answers"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct {
	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address" placeholder:"ADDR"`
}
