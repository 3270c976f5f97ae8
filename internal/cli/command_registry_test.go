package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planerly/internal/errors"
)

type recordingCommand struct {
	args []string
}

func (c *recordingCommand) Execute(ctx context.Context, args []string) error {
	c.args = args
	return nil
}

func TestNewCommandRegistry(t *testing.T) {
	app, _, _ := setupTestApp(t)

	registry := NewCommandRegistry(app)
	assert.NotNil(t, registry)
	assert.NotNil(t, registry.commands)
}

func TestCommandRegistry_Execute(t *testing.T) {
	app, _, _ := setupTestApp(t)
	registry := NewCommandRegistry(app)
	ctx := context.Background()

	t.Run("should run a registered command with its arguments", func(t *testing.T) {
		cmd := &recordingCommand{}
		registry.Register("echo", cmd)

		err := registry.Execute(ctx, "echo", []string{"a", "b=c"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b=c"}, cmd.args)
	})

	t.Run("should reject unknown commands", func(t *testing.T) {
		err := registry.Execute(ctx, "unknown", []string{})
		require.Error(t, err)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
		assert.Contains(t, err.Error(), "unknown command")
	})

	t.Run("should reject an empty command name", func(t *testing.T) {
		err := registry.Execute(ctx, "", []string{})
		assert.Error(t, err)
	})
}

func TestCommandRegistry_GetUsage(t *testing.T) {
	app, _, _ := setupTestApp(t)
	registry := NewCommandRegistry(app)

	usage := registry.GetUsage()
	assert.NotEmpty(t, usage)
	for _, name := range []string{"project", "task", "check", "summary", "export", "reset", "ui", "serve"} {
		assert.Contains(t, usage, name)
	}
}

func TestCommandRegistry_CommandsRegistered(t *testing.T) {
	app, _, _ := setupTestApp(t)
	registry := NewCommandRegistry(app)

	for _, name := range []string{"project", "task", "check", "summary", "export", "reset", "ui", "serve"} {
		t.Run("command "+name+" is registered", func(t *testing.T) {
			cmd, ok := registry.Lookup(name)
			assert.True(t, ok)
			assert.NotNil(t, cmd)
		})
	}

	_, ok := registry.Lookup("start")
	assert.False(t, ok)
}
