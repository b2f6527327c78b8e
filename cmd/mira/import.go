package main

import (
	"fmt"

	"github.com/fwojciec/mira"
	"github.com/fwojciec/mira/fs"
	"github.com/fwojciec/mira/resolve"
	"golang.org/x/sync/errgroup"
)

// Run executes the import command. Files are parsed concurrently and merged
// in argument order, so later files win on duplicate questions, including
// questions that differ only in case. Nothing is imported unless every file
// parses.
func (c *ImportCmd) Run(deps *Dependencies) error {
	err := c.run(deps)
	fmt.Fprintln(deps.Stdout, mira.ImportStatus(err))
	return err
}

func (c *ImportCmd) run(deps *Dependencies) error {
	if len(c.Files) == 0 {
		return mira.Errorf(mira.EINVALID, "no files given")
	}

	parsed := make([]map[string]string, len(c.Files))
	g, ctx := errgroup.WithContext(deps.Ctx)
	for i, path := range c.Files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries, err := fs.ReadEntries(path)
			if err != nil {
				return err
			}
			normalized, err := resolve.NormalizeEntries(entries)
			if err != nil {
				return mira.Errorf(mira.ErrorCode(err), "%s: %s", path, mira.ErrorMessage(err))
			}
			parsed[i] = normalized
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	combined := make(map[string]string)
	for _, entries := range parsed {
		for k, v := range entries {
			combined[k] = v
		}
	}
	return deps.Trainer.Import(deps.Ctx, combined)
}
