// Command ads runs the bit-vector and BP-tree query benchmarks of spec.md
// §6.1. Dispatch is built on github.com/google/subcommands, the pack's only
// complete example of subcommands-based CLI wiring
// (google-gvisor's runsc/tools/dockercfg).
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&bvCommand{}, "")
	subcommands.Register(&bpCommand{}, "")

	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	os.Exit(int(subcommands.Execute(context.Background())))
}
