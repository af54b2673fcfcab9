package main

import (
	"fmt"

	"github.com/fwojciec/mdclip"
)

// Run executes the policies command.
func (c *PoliciesCmd) Run(deps *Dependencies) error {
	var ed mdclip.Editor
	if c.File != "" {
		buf, err := c.open(c.File)
		if err != nil {
			return printError(deps, err)
		}
		ed = buf
	}

	for _, p := range deps.Exporter.Policies(ed) {
		fmt.Fprintf(deps.Stdout, "%-13s %-9s %s\n", p.Name, p.Transform, p.Title)
	}
	return nil
}
