package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name              string
		inconsistentCount int
		hadErrors         bool
		expected          ExitCode
	}{
		{name: "clean run", inconsistentCount: 0, hadErrors: false, expected: ExitCodeSuccess},
		{name: "inconsistencies found", inconsistentCount: 3, hadErrors: false, expected: ExitCodeInconsistent},
		{name: "error takes precedence over clean run", inconsistentCount: 0, hadErrors: true, expected: ExitCodeError},
		{name: "error takes precedence over inconsistencies", inconsistentCount: 2, hadErrors: true, expected: ExitCodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetermineExitCode(tt.inconsistentCount, tt.hadErrors)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	assert.Equal(t, ExitCode(0), ExitCodeSuccess)
	assert.Equal(t, ExitCode(1), ExitCodeInconsistent)
	assert.Equal(t, ExitCode(2), ExitCodeError)
}
