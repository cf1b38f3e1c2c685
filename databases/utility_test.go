package databases

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageOpts(t *testing.T) {
	opts := pageOpts(20, 3)

	assert.Equal(t, int64(20), *opts.Limit)
	assert.Equal(t, int64(40), *opts.Skip)
}

func TestPageOptsClampsToFirstPage(t *testing.T) {
	opts := pageOpts(0, -5)

	assert.Equal(t, int64(1), *opts.Limit)
	assert.Equal(t, int64(0), *opts.Skip)
}
