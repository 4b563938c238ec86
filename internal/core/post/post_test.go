package post

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func stripTags(s string) string {
	r := strings.NewReplacer("<b>", "", "</b>", "")
	return r.Replace(s)
}

func TestClean(t *testing.T) {
	author := bson.NewObjectID()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		in        Input
		wantTitle string
		wantBody  string
	}{
		{
			name:      "trims whitespace",
			in:        Input{Title: "  Hello  ", Body: "World"},
			wantTitle: "Hello",
			wantBody:  "World",
		},
		{
			name:      "strips markup",
			in:        Input{Title: "Hi", Body: "<b>World</b>"},
			wantTitle: "Hi",
			wantBody:  "World",
		},
		{
			name:      "trims whitespace left inside stripped markup",
			in:        Input{Title: "<b> Hi </b>", Body: "<b>\tWorld\n</b>"},
			wantTitle: "Hi",
			wantBody:  "World",
		},
		{
			name:      "non-string fields become empty",
			in:        Input{Title: 42, Body: map[string]any{"x": 1}},
			wantTitle: "",
			wantBody:  "",
		},
		{
			name:      "markup-only text is empty",
			in:        Input{Title: " <b> </b> ", Body: nil},
			wantTitle: "",
			wantBody:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Clean(tt.in, stripTags, author, now)
			assert.Equal(t, tt.wantTitle, p.Title)
			assert.Equal(t, tt.wantBody, p.Body)
			assert.Equal(t, author, p.Author)
			assert.Equal(t, now, p.CreatedDate)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("both missing keeps order", func(t *testing.T) {
		p := &Post{}
		assert.Equal(t, []string{MsgTitleRequired, MsgBodyRequired}, p.Validate())
	})

	t.Run("body missing", func(t *testing.T) {
		p := &Post{Title: "t"}
		assert.Equal(t, []string{MsgBodyRequired}, p.Validate())
	})

	t.Run("valid", func(t *testing.T) {
		p := &Post{Title: "t", Body: "b"}
		assert.Empty(t, p.Validate())
	})
}

func TestValidationErrorUnwrap(t *testing.T) {
	cause := assert.AnError
	err := &ValidationError{Messages: []string{MsgTryLater}, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), MsgTryLater)
}
