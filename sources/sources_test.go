package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://youtube.com/watch?v=abc", "youtube"},
		{"https://www.youtube.com/watch?v=abc", "youtube"},
		{"https://m.YouTube.com/shorts/abc", "youtube"},
		{"https://youtu.be/abc", "youtube"},
		{"youtube.com/watch?v=abc", "youtube"},
		{"https://twitter.com/user/status/1", "twitter"},
		{"https://x.com/user/status/1", "twitter"},
		{"https://www.instagram.com/p/xyz/", "instagram"},
		{"https://vimeo.com/12345", "vimeo"},
		{"https://www.tiktok.com/@u/video/1", "tiktok"},
		{"https://clips.twitch.tv/abc", "twitch"},
		{"https://old.reddit.com/r/videos/comments/1", "reddit"},
		{"https://v.redd.it/abc", "reddit"},
		{"https://box.com/s/abc", "unknown"},
		{"https://notyoutube.com/watch", "unknown"},
		{"https://example.com/youtube.com", "unknown"},
		{"", "unknown"},
		{"://bad", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.url))
		})
	}
}

func TestKnown(t *testing.T) {
	assert.Equal(t, []string{"youtube", "twitter", "instagram", "vimeo", "tiktok", "twitch", "reddit"}, Known())
}
