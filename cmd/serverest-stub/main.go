// serverest-stub serves an in-memory imitation of the ServeRest API for local runs.
package main

import (
	"os"
	"runtime"

	"github.com/maxiaolu1981/cretem/nexuscore/component-base/version"

	_ "github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/stub"
)

func main() {
	if len(os.Getenv("GOMAXPROCS")) == 0 {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	version.CheckVersionAndExit()
	stub.NewApp("serverest-stub").Run()
}
