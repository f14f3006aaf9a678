package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		text string
		out  string
	}{
		{text: "", out: ""},
		{text: "   \t\n  ", out: ""},
		{text: "Breaking News!!", out: "breaking news!!"},
		{text: "Breaking   News\n\nnow", out: "breaking news now"},
		{text: "check this out https://example.com/post/123", out: "check this out"},
		{text: "@someone @other check this out", out: "check this out"},
		{text: "mention mid-text @someone stays", out: "mention mid-text @someone stays"},
		{text: "https://t.co/abc @victim check this out", out: "check this out"},
		{text: "big story via @newsapp", out: "big story"},
		{text: "big story via @newsapp via @otherapp", out: "big story"},
		{text: "Gdańsk héllo", out: "gdansk hello"},
	}

	for _, fix := range fixtures {
		assert.Equal(fix.out, Normalize(fix.text))
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	assert := assert.New(t)

	fixtures := []string{
		"",
		"Breaking news!!",
		"@a @b some text https://t.co/abc via @app",
		"https://t.co/abc @victim this text",
		"已经 normalized 无需 more",
		"Ωmega résumé spacing",
	}
	for _, text := range fixtures {
		once := Normalize(text)
		assert.Equal(once, Normalize(once))
	}
}

func TestTokenize(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]string{"breaking", "news"}, Tokenize("Breaking News!!"))
	assert.Empty(Tokenize("   "))
}

func TestHashOfString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(HashOfString("abc"), HashOfString("abc"))
	assert.NotEqual(HashOfString("abc"), HashOfString("abcd"))
	assert.Len(HashOfString(""), 16)
}
