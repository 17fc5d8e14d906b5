package imageurl

import (
	"encoding/json"
	"testing"

	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFirstImageURL(t *testing.T) {
	var nilPtr *string
	front := "https://cdn.example/front.jpg"

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: common.PlaceholderImage},
		{name: "nil pointer", in: nilPtr, want: common.PlaceholderImage},
		{name: "empty string", in: "", want: common.PlaceholderImage},
		{name: "empty list", in: []string{}, want: common.PlaceholderImage},
		{name: "list", in: []string{front, "https://cdn.example/back.jpg"}, want: front},
		{name: "string", in: front, want: front},
		{name: "pointer", in: &front, want: front},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetFirstImageURL(tt.in))
		})
	}
}

func TestNormalizeImageURLs(t *testing.T) {
	assert.Equal(t, []string{}, NormalizeImageURLs(nil))
	assert.Equal(t, []string{"a.jpg"}, NormalizeImageURLs("a.jpg"))
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, NormalizeImageURLs([]string{"a.jpg", "b.jpg"}))
	assert.Equal(t, []string{}, NormalizeImageURLs(42))
}

func TestNormalizeImageURLs_DecodedJSON(t *testing.T) {
	var row map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"images":["a.jpg",null,"b.jpg"],"single":"c.jpg","none":null}`), &row))

	assert.Equal(t, []string{"a.jpg", "b.jpg"}, NormalizeImageURLs(row["images"]))
	assert.Equal(t, []string{"c.jpg"}, NormalizeImageURLs(row["single"]))
	assert.Equal(t, common.PlaceholderImage, GetFirstImageURL(row["none"]))
}
