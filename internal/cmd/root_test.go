package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}

	assert.Contains(t, names, "run")
	assert.Contains(t, names, "step")
	assert.Contains(t, names, "list")
	assert.Contains(t, names, "history")
}

func TestListCommandOutput(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"list"})

	require.NoError(t, root.Execute())

	assert.Equal(t, "flake8\nmypy\nshellcheck\nclang-tidy\n", out.String())
}

func TestStepCommandRequiresJobAndStep(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"step"})

	assert.Error(t, root.Execute())
}
