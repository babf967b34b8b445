package cmd

import "github.com/JessHua159/inconsistency-checker/output"

var lastExitCode = output.ExitCodeSuccess

// LastExitCode returns the exit code the most recently run subcommand
// determined for itself. Commands that never set it (graph, version,
// help) leave it at ExitCodeSuccess.
func LastExitCode() int {
	return int(lastExitCode)
}

func setExitCode(code output.ExitCode) {
	lastExitCode = code
}
