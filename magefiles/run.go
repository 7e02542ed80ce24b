//go:build mage

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Converts ./aeroplane into ./mask. Extra flags come from VERTEX2MASK_ARGS.
func (Run) Convert() error {
	mg.Deps(Build.All)
	if err := os.MkdirAll("mask", 0755); err != nil {
		return err
	}
	fmt.Println("Run vertex2mask...")
	args := []string{"-input_dir", "./aeroplane", "-output", "mask"}
	args = append(args, strings.Fields(os.Getenv("VERTEX2MASK_ARGS"))...)
	_, err := executeCmd("bin/vertex2mask", withArgs(args...), withStream())
	return err
}
