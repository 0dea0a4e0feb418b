package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(cause, CodeInternal, "upsert properties failed")
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "internal: upsert properties failed: boom", err.Error())
}

func TestCodeOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("resolve: %w", New(CodeForbidden, MsgNotMember))
	assert.True(t, IsCode(err, CodeForbidden))
	assert.Equal(t, CodeForbidden, CodeOf(err))
	assert.Equal(t, CodeUnknown, CodeOf(fmt.Errorf("plain")))
}

func TestWithMeta(t *testing.T) {
	err := New(CodeConflict, MsgTagExists).WithMeta("tag", "urgent")
	assert.Equal(t, "urgent", err.Meta["tag"])
}
