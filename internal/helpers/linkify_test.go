package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkUsernames(t *testing.T) {
	got := LinkUsernames("thanks @jb and @jbz_2!")
	assert.Equal(t,
		`thanks <a href="/users/jb">@jb</a> and <a href="/users/jbz_2">@jbz_2</a>!`,
		string(got))
}

func TestLinkUsernames_LeavesHashtags(t *testing.T) {
	got := LinkUsernames("#pen by @jb")
	assert.Equal(t, `#pen by <a href="/users/jb">@jb</a>`, string(got))
}

func TestLinkHashtags(t *testing.T) {
	got := LinkHashtags("love this #sunset")
	assert.Equal(t, `love this <a href="/search?search=%23sunset">#sunset</a>`, string(got))
}

func TestLinkify_Both(t *testing.T) {
	got := Linkify("@ab check #nyc")
	assert.Equal(t,
		`<a href="/users/ab">@ab</a> check <a href="/search?search=%23nyc">#nyc</a>`,
		string(got))
}

func TestLinkify_EscapesMarkup(t *testing.T) {
	got := Linkify(`<script>alert("x")</script> @jb`)
	assert.Equal(t,
		`&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; <a href="/users/jb">@jb</a>`,
		string(got))
}

func TestLinkify_EscapedQuoteIsNotAHashtag(t *testing.T) {
	got := Linkify("it's")
	assert.Equal(t, "it&#39;s", string(got))
}

func TestLinkify_PlainText(t *testing.T) {
	assert.Equal(t, "nothing to link", string(Linkify("nothing to link")))
	assert.Equal(t, "", string(Linkify("")))
}
