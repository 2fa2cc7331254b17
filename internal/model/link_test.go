package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://example.com/a?b=c", false},
		{"", true},
		{"example.com", true},
		{"https://", true},
		{"://bad", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := (&Link{URL: tt.url}).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTagList(t *testing.T) {
	assert.Nil(t, (&Link{}).TagList())
	assert.Equal(t, []string{"go", "web"}, (&Link{Tags: " go, ,web ,"}).TagList())
}

func TestMergeTags(t *testing.T) {
	l := &Link{Tags: "go,Web"}
	l.MergeTags(&Link{Tags: "web,cli, go ,ids"})
	assert.Equal(t, "go,Web,cli,ids", l.Tags)

	l = &Link{}
	l.MergeTags(&Link{Tags: "a"})
	assert.Equal(t, "a", l.Tags)

	l = &Link{Tags: "a"}
	l.MergeTags(&Link{})
	assert.Equal(t, "a", l.Tags)
}

func TestIsRead(t *testing.T) {
	now := time.Now()
	assert.False(t, (&Link{}).IsRead())
	assert.True(t, (&Link{ReadAt: &now}).IsRead())
}
