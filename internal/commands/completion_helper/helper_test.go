package completion_helper

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestDefaultFlagComplete(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cli.Command{
		Name:   "compile",
		Writer: &buf,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Aliases: []string{"o"}},
			&cli.BoolFlag{Name: "internal", Hidden: true},
		},
	}

	DefaultFlagComplete(context.Background(), cmd)

	assert.Equal(t, "--owner\n-o\n", buf.String())
}
