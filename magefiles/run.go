//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Prints the catalog of the assets folder.
func (Run) Catalog() error {
	fmt.Println("Run poser...")
	if _, err := executeCmd("go", withArgs("run", ".", "catalog"), withStream()); err != nil {
		return err
	}
	return nil
}

// Watches the assets folder and reprints the catalog on every change.
func (Run) Watch() error {
	mg.Deps(Build.Poser)
	if _, err := executeCmd("bin/poser", withArgs("watch"), withStream()); err != nil {
		return err
	}
	return nil
}
