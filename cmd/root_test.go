package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootRegistersCommands(t *testing.T) {
	serve, _, err := rootCmd.Find([]string{"serve"})
	assert.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	rm, _, err := rootCmd.Find([]string{"task", "rm"})
	assert.NoError(t, err)
	assert.Equal(t, "rm", rm.Name())
}
