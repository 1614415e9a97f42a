package media

import (
	"net/url"
	"path"
)

// contentTypes maps a file extension, including its leading dot, to the
// content type reported to the receiver.
var contentTypes = map[string]string{
	".flv":  "video/x-flv",
	".mp4":  "video/mp4",
	".m3u8": "application/x-mpegURL",
	".ts":   "video/MP2T",
	".3gp":  "video/3gpp",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".wmv":  "video/x-ms-wmv",
}

// ContentType returns the content type for ext, or "" when unrecognized.
// The lookup is literal: ext must carry its leading dot ("mp4" is not ".mp4").
func ContentType(ext string) string {
	return contentTypes[ext]
}

// ExtensionOf returns the extension of the URL's path, with its leading dot,
// ignoring any query or fragment. Unparseable URLs fall back to the raw string.
func ExtensionOf(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	return path.Ext(p)
}

// ContentTypeForURL classifies a media URL by its path extension.
func ContentTypeForURL(rawURL string) string {
	return ContentType(ExtensionOf(rawURL))
}
