//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Tidies the modules and builds the poser binary into bin/.
func (Build) Poser() error {
	if err := goTidy(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/poser", "."), withStream()); err != nil {
		return err
	}
	return nil
}
