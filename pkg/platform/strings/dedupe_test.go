package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	assert.Equal(t, []string{"index", "carta"}, DedupeAndTrim([]string{" index ", "carta", "index", "", "  "}))
	assert.Empty(t, DedupeAndTrim(nil))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList("", ","))
	assert.Equal(t, []string{"index", "blog", "carta"}, SplitList("index,blog,,carta,blog", ","))
}

func TestAppendUnique(t *testing.T) {
	got, added := AppendUnique([]string{"index"}, "carta")
	assert.True(t, added)
	assert.Equal(t, []string{"index", "carta"}, got)

	got, added = AppendUnique(got, "index")
	assert.False(t, added)
	assert.Equal(t, []string{"index", "carta"}, got)
}
