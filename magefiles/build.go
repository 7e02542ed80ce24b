//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

var binaries = []string{"vertex2mask", "inspectmat"}

// Builds every command into bin/ as static binaries; nothing needs cgo.
func (Build) All() error {
	for _, name := range binaries {
		if _, err := executeCmd("go", withArgs("build", "-o", "bin/"+name, "./cmd/"+name), withEnv("CGO_ENABLED=0"), withStream()); err != nil {
			return err
		}
	}
	return nil
}

// Runs go vet and the test suite.
func Test() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}
