package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	// Run the tests
	os.Exit(m.Run())
}

func TestExecute(t *testing.T) {
	// Redirect stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	oldArgs := os.Args
	os.Args = []string{"inconsistency-checker", "--help"}
	defer func() { os.Args = oldArgs }()

	// Mock os.Exit
	oldOsExit := osExit
	var exitCode int
	exitCalled := false
	osExit = func(code int) {
		exitCode = code
		exitCalled = true
	}
	defer func() { osExit = oldOsExit }()

	main()

	w.Close()
	os.Stdout = oldStdout
	var buf bytes.Buffer
	buf.ReadFrom(r)

	output := buf.String()
	assert.Contains(t, output, "inconsistency-checker")
	assert.Contains(t, output, "Available Commands:")
	assert.Contains(t, output, "graph")
	assert.Contains(t, output, "check")
	assert.Contains(t, output, "version")
	assert.True(t, exitCalled)
	assert.Equal(t, 0, exitCode)
}
