package progress

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole_StartAndComplete(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "OCR: ")

	c.OnStart(4)
	c.OnProgress(2, 4)
	c.OnProgress(4, 4)
	c.OnComplete()

	out := buf.String()
	assert.Contains(t, out, "OCR: 0/4 (0.0%)")
	assert.Contains(t, out, "4/4 (100.0%)")
	assert.Contains(t, out, "Completed in")
}

func TestConsole_ErrorReported(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "")

	c.OnStart(2)
	c.OnError(1, errors.New("page unreadable"))

	assert.Contains(t, buf.String(), "Error at item 1: page unreadable")
}

func TestNoOpImplementsCallback(t *testing.T) {
	var cb Callback = NoOp{}
	cb.OnStart(1)
	cb.OnProgress(1, 1)
	cb.OnError(1, errors.New("x"))
	cb.OnComplete()
}
