package notion

import (
	"testing"
)

func TestMapImageURL(t *testing.T) {
	block := map[string]any{"id": "b1", "parent_table": "collection"}

	tests := []struct {
		name  string
		url   string
		block map[string]any
		want  string
	}{
		{
			name:  "external url wrapped through proxy",
			url:   "https://example.com/img.png",
			block: block,
			want:  "https://www.notion.so/image/https%3A%2F%2Fexample.com%2Fimg.png?cache=v2&id=b1&table=block",
		},
		{
			name:  "data url passes through",
			url:   "data:image/png;base64,AAAA",
			block: block,
			want:  "data:image/png;base64,AAAA",
		},
		{
			name:  "unsplash url passes through",
			url:   "https://images.unsplash.com/photo-1",
			block: block,
			want:  "https://images.unsplash.com/photo-1",
		},
		{
			name:  "relative image path gets host prefix",
			url:   "/image/foo.png",
			block: map[string]any{"id": "b2", "parent_table": "block"},
			want:  "https://www.notion.so/image/foo.png?cache=v2&id=b2&table=block",
		},
		{
			name:  "space parent normalizes to block table",
			url:   "https://example.com/a.png",
			block: map[string]any{"id": "b3", "parent_table": "space"},
			want:  "https://www.notion.so/image/https%3A%2F%2Fexample.com%2Fa.png?cache=v2&id=b3&table=block",
		},
		{
			name:  "nil block still maps",
			url:   "https://example.com/a.png",
			block: nil,
			want:  "https://www.notion.so/image/https%3A%2F%2Fexample.com%2Fa.png?cache=v2&id=&table=block",
		},
		{
			name:  "empty url",
			url:   "",
			block: block,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapImageURL(tt.url, tt.block)
			if got != tt.want {
				t.Errorf("MapImageURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
