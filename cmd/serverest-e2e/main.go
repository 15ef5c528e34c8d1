// serverest-e2e runs the end to end suite against a ServeRest deployment.
package main

import (
	"os"
	"runtime"

	"github.com/maxiaolu1981/cretem/nexuscore/component-base/version"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/e2e"
	_ "github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
)

func main() {
	if len(os.Getenv("GOMAXPROCS")) == 0 {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	version.CheckVersionAndExit()
	e2e.NewApp("serverest-e2e").Run()
}
