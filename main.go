/*
Command meshops imports a model, cleans up its hierarchy and prints the
result. See testbed for the steps it runs.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/meshops/engine"
	"github.com/spaghettifunk/meshops/testbed"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a TOML config (optional)")
		model      = flag.String("model", "", "glTF model, relative to the assets base path")
		height     = flag.Float64("height", 0, "lift the model root by this much after centering")
		convert    = flag.Bool("proc", false, "replace static meshes with procedural copies")
		lods       = flag.Int("lods", 0, "LODs copied per converted mesh, 0 for all")
		material   = flag.String("material", "", ".amt material applied to converted sections (optional)")
		readable   = flag.Bool("readable", true, "strip numeric suffixes from package names")
	)
	flag.Parse()

	if *model == "" {
		fmt.Fprintln(os.Stderr, "missing -model")
		os.Exit(2)
	}

	tb := testbed.NewTestGame(&engine.ApplicationConfig{
		Name:       "MeshOps",
		ConfigPath: *configPath,
	}, testbed.Options{
		Model:    *model,
		Height:   float32(*height),
		Convert:  *convert,
		LODs:     *lods,
		Material: *material,
		Readable: *readable,
	}, os.Stdout)

	e, err := engine.New(tb.Game)
	if err != nil {
		fmt.Fprintln(os.Stderr, "engine:", err)
		os.Exit(1)
	}
	defer e.Shutdown()

	if err := e.Initialize(); err != nil {
		fmt.Fprintln(os.Stderr, "initialize:", err)
		os.Exit(1)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		<-sigCh
		e.Stop()
	}()

	if err := e.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "run:", err)
		os.Exit(1)
	}
}
