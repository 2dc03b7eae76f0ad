package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/newsbridge/pkg/query"
)

func TestStringSlice(t *testing.T) {
	assert.Nil(t, query.StringSlice(""))
	assert.Equal(t, []string{"BBC News", "CBC News"}, query.StringSlice(" BBC News , CBC News "))
	assert.Equal(t, []string{"ESPN"}, query.StringSlice("ESPN,, ,"))
}
