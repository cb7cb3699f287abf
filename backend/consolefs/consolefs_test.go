package consolefs

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleReadWrite(t *testing.T) {
	in := strings.NewReader("input line\n")
	var out bytes.Buffer
	fs := New(in, &out)
	ctx := context.Background()

	res, err := fs.Open(ctx, "console", 0, 0)
	require.NoError(t, err)
	buf := make([]byte, 32)
	n, err := res.File.Read(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, "input line\n", string(buf[:n]))

	_, err = res.File.Write(ctx, []byte("echoed\n"))
	require.NoError(t, err)
	assert.Equal(t, "echoed\n", out.String())
}

func TestConsoleOpenUnknownName(t *testing.T) {
	fs := New(strings.NewReader(""), &bytes.Buffer{})
	_, err := fs.Open(context.Background(), "other", 0, 0)
	assert.Error(t, err, "expected ENOENT for an unrecognised console path")
}
