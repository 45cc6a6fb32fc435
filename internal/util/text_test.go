package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 1, WordCount("hello"))
	assert.Equal(t, 4, WordCount("a b c d"))
	assert.Equal(t, 2, WordCount("  spaced\tout\n"))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "92.00%", FormatPercent(0.92))
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "100.00%", FormatPercent(1))
	assert.Equal(t, "7.50%", FormatPercent(0.075))
}

func TestJoinOrNone(t *testing.T) {
	assert.Equal(t, "None listed", JoinOrNone(nil))
	assert.Equal(t, "None listed", JoinOrNone([]string{}))
	assert.Equal(t, "a", JoinOrNone([]string{"a"}))
	assert.Equal(t, "a, b", JoinOrNone([]string{"a", "b"}))
}
