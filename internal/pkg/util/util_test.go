package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	cases := map[string]int{"": 1, "abc": 1, "0": 1, "-3": 1, "2": 2, " 7 ": 7}
	for raw, want := range cases {
		assert.Equal(t, want, ParsePage(raw), "raw=%q", raw)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 9))
	assert.Equal(t, 1, TotalPages(9, 9))
	assert.Equal(t, 2, TotalPages(10, 9))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("3f1c2d4e-0000-4000-8000-000000000000"))
	assert.False(t, IsUUID("not-a-token"))
	assert.False(t, IsUUID("3f1c2d4e000040008000000000000000"))
	assert.False(t, IsUUID(""))
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"Fantasy", "Horror"}, NormalizeTags([]string{" Fantasy", "", "Horror", "Fantasy "}))
	assert.Empty(t, NormalizeTags([]string{" ", ""}))
}

func TestValidateUsername(t *testing.T) {
	assert.True(t, IsValidUsername("alice_01"))
	assert.False(t, IsValidUsername("al"))
	assert.False(t, IsValidUsername("alice!"))

	type form struct {
		Username string `validate:"required,min=3,max=50,username"`
	}
	assert.Nil(t, ValidateDTO(&form{Username: "bob_b"}))
	fe := ValidateDTO(&form{Username: "bad name"})
	if assert.NotNil(t, fe) {
		assert.Equal(t, "Username", fe.Field())
		assert.Equal(t, "username", fe.Tag())
	}
}

func TestEncodedRedirect(t *testing.T) {
	assert.Equal(t, "/sign-in?error=Passwords+do+not+match", EncodedRedirect(RedirectError, "/sign-in", "Passwords do not match"))
}

func TestSafeNextPath(t *testing.T) {
	assert.Equal(t, "/protected/reset-password", SafeNextPath("/protected/reset-password"))
	assert.Equal(t, "/", SafeNextPath("https://evil.example"))
	assert.Equal(t, "/", SafeNextPath("//evil.example"))
	assert.Equal(t, "/", SafeNextPath(""))
}

func TestPlainTextAndExcerpt(t *testing.T) {
	assert.Equal(t, "Hello world", PlainText("<p>Hello <b>world</b></p><script>x()</script>"))
	assert.Equal(t, "a b", PlainText("a\n\n  b"))
	assert.Equal(t, "short", Excerpt("short", 10))
	assert.Equal(t, "one two…", Excerpt("one two three four", 9))
}
