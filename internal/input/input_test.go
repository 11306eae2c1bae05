package input

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DirectCommandReader_ReadCommand(t *testing.T) {
	t.Run("skips blank lines", func(t *testing.T) {
		assert := assert.New(t)

		r := NewDirectReader(strings.NewReader("  lex a\n\n   \nquit"))

		line, err := r.ReadCommand()
		assert.NoError(err)
		assert.Equal("lex a", line)

		line, err = r.ReadCommand()
		assert.NoError(err)
		assert.Equal("quit", line)

		line, err = r.ReadCommand()
		assert.ErrorIs(err, io.EOF)
		assert.Equal("", line)
	})

	t.Run("blanks allowed", func(t *testing.T) {
		assert := assert.New(t)

		r := NewDirectReader(strings.NewReader("\nrun\n"))
		r.AllowBlank(true)

		line, err := r.ReadCommand()
		assert.NoError(err)
		assert.Equal("", line)

		line, err = r.ReadCommand()
		assert.NoError(err)
		assert.Equal("run", line)
	})
}
