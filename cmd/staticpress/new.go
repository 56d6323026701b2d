package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/eringen/staticpress/scaffold"
)

// NewCmd scaffolds a site.
type NewCmd struct {
	Name string `arg:"" help:"Directory name of the new site, e.g. my-blog"`
}

func (n *NewCmd) Run(g *Globals) error {
	dir := filepath.Clean(n.Name)
	data := scaffold.NewData(filepath.Base(dir), time.Now())

	fmt.Printf("Creating new staticpress site: %s\n\n", dir)
	files, err := scaffold.Generate(dir, data)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Printf("  created %s\n", filepath.Join(dir, f))
	}

	fmt.Println()
	fmt.Println("Done! Next steps:")
	fmt.Println()
	fmt.Printf("  cd %s\n", dir)
	fmt.Println("  staticpress serve")
	fmt.Println()
	fmt.Println("Edit site.yaml and add posts under posts/, then run 'staticpress build'.")
	return nil
}
