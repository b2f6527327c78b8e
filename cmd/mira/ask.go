package main

import (
	"fmt"
	"strings"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	res := deps.Resolver.Resolve(deps.Ctx, strings.Join(c.Query, " "))
	fmt.Fprintln(deps.Stdout, res.Answer)
	return nil
}
