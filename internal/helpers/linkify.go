// Package helpers holds view helpers used when rendering comment text.
package helpers

import (
	"html"
	"html/template"
	"net/url"
	"regexp"
	"strings"
)

var (
	mentionPattern = regexp.MustCompile(`@\w+`)
	hashtagPattern = regexp.MustCompile(`#\w+`)
	tokenPattern   = regexp.MustCompile(`[@#]\w+`)
)

// UserPath is the profile path for a username.
func UserPath(username string) string {
	return "/users/" + url.PathEscape(username)
}

// SearchPath is the search path for a hashtag, including the leading '#'.
func SearchPath(hashtag string) string {
	return "/search?search=" + url.QueryEscape(hashtag)
}

// LinkUsernames escapes text and turns every @username into a profile link.
func LinkUsernames(text string) template.HTML {
	return link(text, mentionPattern)
}

// LinkHashtags escapes text and turns every #tag into a search link.
func LinkHashtags(text string) template.HTML {
	return link(text, hashtagPattern)
}

// Linkify applies both LinkUsernames and LinkHashtags in a single pass.
func Linkify(text string) template.HTML {
	return link(text, tokenPattern)
}

// link escapes the text between matches; matches are word characters behind
// a sigil and need no escaping.
func link(text string, pattern *regexp.Regexp) template.HTML {
	var b strings.Builder
	last := 0
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:loc[0]]))
		tok := text[loc[0]:loc[1]]
		href := SearchPath(tok)
		if tok[0] == '@' {
			href = UserPath(tok[1:])
		}
		b.WriteString(`<a href="` + html.EscapeString(href) + `">` + tok + `</a>`)
		last = loc[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return template.HTML(b.String())
}
