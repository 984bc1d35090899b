package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitConfigPath(t *testing.T) {
	name, typ, dir, err := splitConfigPath("/etc/markup/config.yaml")
	assert.NoError(t, err)
	assert.Equal(t, "config", name)
	assert.Equal(t, "yaml", typ)
	assert.Equal(t, "/etc/markup", dir)

	_, _, _, err = splitConfigPath("config")
	assert.Error(t, err)
}

func TestConvertPassthrough(t *testing.T) {
	c := &converter{
		from:        "irc",
		to:          "plain",
		passthrough: compileGlobs([]string{"!*"}),
	}
	out, err := c.Convert("!raw command")
	assert.NoError(t, err)
	assert.Equal(t, "!raw command", out)

	out, err = c.Convert("\x02hello\x02")
	assert.NoError(t, err)
	assert.Equal(t, "hello", out)
}
