package main

import (
	"fmt"

	"github.com/fwojciec/mira"
)

// Run executes the train command.
func (c *TrainCmd) Run(deps *Dependencies) error {
	if err := deps.Trainer.Train(deps.Ctx, c.Question, c.Answer); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mira.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Gelernt: %s\n", mira.Normalize(c.Question))
	return nil
}
