package main

import (
	"fmt"
	"os"

	"github.com/JessHua159/inconsistency-checker/cmd"
	"github.com/JessHua159/inconsistency-checker/output"
)

// osExit is indirected so tests can observe the exit code main() would
// have produced without actually terminating the test process.
var osExit = os.Exit

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		code := cmd.LastExitCode()
		if code == int(output.ExitCodeSuccess) {
			// The failing command did not record its own code (graph,
			// argument errors): a returned error is still fatal.
			code = int(output.ExitCodeError)
		}
		osExit(code)
		return
	}
	osExit(cmd.LastExitCode())
}
