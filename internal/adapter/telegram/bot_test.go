package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedUser(t *testing.T) {
	assert.True(t, isAllowedUser(42, nil))
	assert.True(t, isAllowedUser(42, []int64{1, 42}))
	assert.False(t, isAllowedUser(7, []int64{1, 42}))
}

func TestSplitText(t *testing.T) {
	assert.Equal(t, []string{"curto"}, splitText("curto", 10))
	assert.Equal(t, []string{"abc"}, splitText("abc", 0))

	long := strings.Repeat("á", 25)
	chunks := splitText(long, 10)
	assert.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("á", 10), chunks[0])
	assert.Equal(t, strings.Repeat("á", 5), chunks[2])
}

func TestSenderID(t *testing.T) {
	assert.Equal(t, "telegram:12345", SenderID(12345))
	assert.Equal(t, "telegram:-100200", SenderID(-100200))
}
