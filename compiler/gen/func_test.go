package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPascal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"name", "Name"},
		{"user_id", "UserID"},
		{"api_url", "APIURL"},
		{"created_at", "CreatedAt"},
		{"createdAt", "CreatedAt"},
		{"http-code", "HTTPCode"},
		{"uuid", "UUID"},
		{"create_time", "CreateTime"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, pascal(tt.input))
		})
	}
}

func TestSnake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Person", "person"},
		{"FollowEdge", "follow_edge"},
		{"already_snake", "already_snake"},
		{"A", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, snake(tt.input))
		})
	}
}
