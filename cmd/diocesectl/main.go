// Command diocesectl checks, repairs and imports the diocese directory.
package main

import (
	"fmt"
	"io"
	"os"

	"diocese/internal/cli"
	"diocese/internal/platform/config"
	"diocese/internal/platform/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.FromEnv()
	log := logger.NewWithWriter(cfg.Log, stderr)

	root := cli.NewRootCommand(cli.DefaultOpener(cfg, log), log)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}
