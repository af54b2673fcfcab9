package main

import (
	"fmt"

	"github.com/fwojciec/mdclip"
	"github.com/fwojciec/mdclip/export"
)

// Run executes the copy command.
func (c *CopyCmd) Run(deps *Dependencies) error {
	transform, err := mdclip.ParseTransform(c.Transform)
	if err != nil {
		return printError(deps, err)
	}

	reqs := make([]export.Request, 0, len(c.Files))
	for _, path := range c.Files {
		buf, err := c.open(path)
		if err != nil {
			return printError(deps, err)
		}
		reqs = append(reqs, export.Request{
			Editor:    buf,
			Policy:    c.Policy,
			Transform: transform,
		})
	}

	var characters int
	if len(reqs) == 1 {
		res, err := deps.Exporter.Export(deps.Ctx, reqs[0])
		if err != nil {
			return printError(deps, err)
		}
		characters = res.Characters()
	} else {
		batch, err := deps.Exporter.ExportAll(deps.Ctx, reqs)
		if err != nil {
			return printError(deps, err)
		}
		characters = batch.Characters()
	}

	if deps.Target == TargetStdout {
		fmt.Fprintf(deps.Stderr, "Wrote %d characters\n", characters)
	} else {
		fmt.Fprintf(deps.Stderr, "Copied %d characters to the clipboard!\n", characters)
	}
	return nil
}
