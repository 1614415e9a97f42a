// Package media defines shared types for the castbrowse application.
package media

// URLList is the ordered, duplicate-free set of media URLs found on the
// current page. Insertion order is discovery order. A list is never edited in
// place by its consumers; each page load produces a new one.
type URLList []string

// Contains reports whether url is already in the list.
func (l URLList) Contains(url string) bool {
	for _, u := range l {
		if u == url {
			return true
		}
	}
	return false
}

// Add appends url unless it is empty or already present.
func (l URLList) Add(url string) URLList {
	if url == "" || l.Contains(url) {
		return l
	}
	return append(l, url)
}

// At returns the URL at index i, or false when i is out of range.
func (l URLList) At(i int) (string, bool) {
	if i < 0 || i >= len(l) {
		return "", false
	}
	return l[i], true
}

// Entry pairs a media URL with what is known about it at selection time.
// Entries are built on demand and never stored.
type Entry struct {
	URL         string  `json:"url"`          // Media URL as found in the page
	ContentType string  `json:"content_type"` // MIME-like label, empty when unclassified
	Title       string  `json:"title"`        // Display title sent to the receiver
	Duration    float64 `json:"duration"`     // Seconds, 0 when unknown
}

// NewEntry builds an Entry for url, classifying it by extension. The title
// defaults to the URL itself.
func NewEntry(url string, duration float64) Entry {
	return Entry{
		URL:         url,
		ContentType: ContentTypeForURL(url),
		Title:       url,
		Duration:    duration,
	}
}
