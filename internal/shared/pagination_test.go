package shared

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageParamsDefaultsAndCaps(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		page    int
		perPage int
	}{
		{name: "defaults", query: "", page: 1, perPage: DefaultPageSize},
		{name: "explicit", query: "page=3&page_size=50", page: 3, perPage: 50},
		{name: "zero page", query: "page=0", page: 1, perPage: DefaultPageSize},
		{name: "oversized", query: "page_size=500", page: 1, perPage: DefaultPageSize},
		{name: "garbage", query: "page=abc&page_size=xyz", page: 1, perPage: DefaultPageSize},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values, err := url.ParseQuery(tc.query)
			assert.NoError(t, err)
			page, perPage := PageParams(values)
			assert.Equal(t, tc.page, page)
			assert.Equal(t, tc.perPage, perPage)
		})
	}
}

func TestWindowClampsToLength(t *testing.T) {
	p := NewPagination(2, 10, 15)
	start, end := p.Window(15)
	assert.Equal(t, 10, start)
	assert.Equal(t, 15, end)

	p = NewPagination(5, 10, 15)
	start, end = p.Window(15)
	assert.Equal(t, start, end)
}
