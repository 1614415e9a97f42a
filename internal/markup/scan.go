// Package markup finds media URLs in serialized page markup.
//
// The scan is a line-oriented text match on the src attribute of <video> and
// <embed> elements, not an HTML parse. Elements spanning several lines are not
// found and only the first element of each kind on a line is considered.
package markup

import (
	"strings"

	"castbrowse/internal/media"
)

const (
	videoTag = "<video"
	embedTag = "<embed"
	srcToken = "src"
)

// Scan returns the media URLs found in markup, in discovery order and without
// duplicates. It never fails: malformed markup only yields fewer matches.
//
// Both tag kinds on a line write into one candidate buffer, <video> first.
// When a line has both, the <embed> candidate is the <video> candidate with
// the attribute value appended again.
func Scan(markup string) media.URLList {
	var urls media.URLList

	for _, line := range strings.Split(markup, "\n") {
		var candidate strings.Builder
		for _, tag := range [...]string{videoTag, embedTag} {
			if !strings.Contains(line, tag) {
				continue
			}
			if strings.Contains(tagFragment(line, tag), srcToken) {
				i := strings.Index(line, srcToken)
				readAttrValue(line[i+len(srcToken):], &candidate)
			}
			urls = urls.Add(candidate.String())
		}
	}

	return urls
}

// tagFragment returns line from the first occurrence of tag through the next
// '>', or through the end of the line when the tag is never closed.
func tagFragment(line, tag string) string {
	frag := line[strings.Index(line, tag):]
	if end := strings.IndexByte(frag, '>'); end >= 0 {
		return frag[:end+1]
	}
	return frag
}

type byteClass int

const (
	byteKeep byteClass = iota
	byteSkip
	byteStop
)

func classifyByte(c byte) byteClass {
	switch c {
	case '"', '=':
		return byteSkip
	case '>':
		return byteStop
	default:
		return byteKeep
	}
}

// readAttrValue copies the attribute value at the start of frag into dst.
// Quotes and '=' are dropped and the first '>' ends the value. Other bytes
// are copied as-is, including ones that are not valid UTF-8.
func readAttrValue(frag string, dst *strings.Builder) {
	for i := 0; i < len(frag); i++ {
		switch classifyByte(frag[i]) {
		case byteSkip:
			continue
		case byteStop:
			return
		}
		dst.WriteByte(frag[i])
	}
}
