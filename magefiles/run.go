//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Spawns the scene named by $SCENE (or the configured root scene) and ticks
// until interrupted.
func (Run) Loader() error {
	args := []string{"run", "main.go", "-config", "engine.toml"}
	if scene := os.Getenv("SCENE"); scene != "" {
		args = append(args, "-scene", scene)
	}
	fmt.Println("Run loader...")
	if _, err := executeCmd("go", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}

// Like Loader, but reloads assets when the exporter rewrites them.
func (Run) Watch() error {
	mg.Deps(Build.Loader)
	if _, err := executeCmd("bin/blend-loader", withArgs("-config", "engine.toml", "-watch"), withStream()); err != nil {
		return err
	}
	return nil
}
