package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsInnerCode(t *testing.T) {
	inner := InvalidColumn("column %q holds no numbers", "age")
	wrapped := Wrapf(inner, "render %s", "hist")

	assert.Equal(t, CodeInvalidColumn, GetCode(wrapped))
	assert.True(t, IsInvalidColumn(wrapped))
	assert.Equal(t, "render hist", UserMessage(wrapped))
	assert.Contains(t, wrapped.Error(), `column "age" holds no numbers`)
	assert.True(t, stderrors.Is(wrapped, inner))
}

func TestWrap_PlainError(t *testing.T) {
	err := Wrap(fmt.Errorf("disk full"), "save")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))
}

func TestGetCode_Unknown(t *testing.T) {
	assert.Equal(t, CodeUnknown, GetCode(fmt.Errorf("plain")))
	assert.Equal(t, "plain", UserMessage(fmt.Errorf("plain")))
}

func TestIngestionFailed(t *testing.T) {
	err := IngestionFailed(fmt.Errorf("record on line 2: wrong number of fields"), "Error reading the file")
	assert.Equal(t, "Error reading the file: record on line 2: wrong number of fields", err.Error())
	assert.Equal(t, "Error reading the file", UserMessage(err))
	assert.Equal(t, CodeIngestionFailed, GetCode(err))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsInvalidSelection(InvalidSelection("x")))
	assert.True(t, IsInsufficientData(InsufficientData("need %d", 2)))
	assert.False(t, IsInvalidSelection(InvalidInput("x")))
	assert.True(t, HasCode(ConfigInvalid("x"), CodeConfigInvalid))
}
