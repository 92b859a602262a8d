//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Cleans up the model named by $MODEL. $CONFIG optionally points to a TOML
// config.
func (Run) Model() error {
	model := os.Getenv("MODEL")
	if model == "" {
		return fmt.Errorf("MODEL is not set")
	}
	args := []string{"run", ".", "-model", model}
	if cfg := os.Getenv("CONFIG"); cfg != "" {
		args = append(args, "-config", cfg)
	}
	fmt.Println("Run meshops...")
	if _, err := executeCmd("go", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}
