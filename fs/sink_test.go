package fs_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/mdclip/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterSink_WriteText(t *testing.T) {
	t.Parallel()

	t.Run("writes the text and a newline", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := fs.NewWriterSink(&buf).WriteText(context.Background(), "<p>x</p>")

		require.NoError(t, err)
		assert.Equal(t, "<p>x</p>\n", buf.String())
	})

	t.Run("returns the context error when cancelled", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := fs.NewWriterSink(&buf).WriteText(ctx, "x")

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, buf.String())
	})
}
