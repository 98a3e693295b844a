// Command memodemo shows get-or-compute memoization on the command line.
package main

import (
	"context"
	"fmt"
	"os"

	mylog "github.com/goforj/memo/internal/log"
)

// ConfigEnv names the environment variable pointing at an optional YAML
// config file.
const ConfigEnv = "MEMODEMO_CFG"

func main() {
	os.Exit(realMain(os.Args))
}

func realMain(args []string) int {
	mylog.InitLogger()

	cfgPath := os.Getenv(ConfigEnv)
	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "config file: %v\n", err)
			return 1
		}
	}

	app := NewApp(cfgPath)
	if err := app.Run(context.Background(), args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return 0
}
