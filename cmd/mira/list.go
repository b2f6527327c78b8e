package main

import (
	"fmt"

	"github.com/fwojciec/mira"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	keys, err := deps.Store.Keys(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mira.ErrorMessage(err))
		return err
	}

	if len(keys) == 0 {
		fmt.Fprintln(deps.Stdout, "No questions found. Use 'mira train' or 'mira import' to add some.")
		return nil
	}

	for _, k := range keys {
		fmt.Fprintln(deps.Stdout, k)
	}
	return nil
}
