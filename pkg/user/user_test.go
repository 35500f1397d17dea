package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAvatarURL(t *testing.T) {
	const origin = "http://0.0.0.0:8000"

	tests := []struct {
		name   string
		avatar string
		want   string
	}{
		{
			name:   "relative path is resolved against the media origin",
			avatar: "/media/avatars/u1.png",
			want:   origin + "/media/avatars/u1.png",
		},
		{
			name:   "absolute http URL is untouched",
			avatar: "http://cdn.example.com/u1.png",
			want:   "http://cdn.example.com/u1.png",
		},
		{
			name:   "absolute https URL is untouched",
			avatar: "https://cdn.example.com/u1.png",
			want:   "https://cdn.example.com/u1.png",
		},
		{
			name:   "empty avatar stays empty",
			avatar: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAvatarURL(User{ID: "u1", Avatar: tt.avatar}, origin)
			assert.Equal(t, tt.want, got.Avatar)
		})
	}
}

func TestNormalizeAvatarURLIsIdempotent(t *testing.T) {
	const origin = "http://0.0.0.0:8000"
	u := User{ID: "u1", Avatar: "/media/u1.png"}

	once := NormalizeAvatarURL(u, origin)
	twice := NormalizeAvatarURL(once, origin)

	assert.Equal(t, once, twice)
}

func TestNormalizeAvatarURLDoesNotMutateInput(t *testing.T) {
	u := User{ID: "u1", Avatar: "/media/u1.png"}
	_ = NormalizeAvatarURL(u, "http://0.0.0.0:8000")
	assert.Equal(t, "/media/u1.png", u.Avatar)
}
