package domain

// Media describes one stored attachment. Location and Thumbnail are paths
// under the media store root; the HTTP layer maps them to URLs.
type Media struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	MimeType  string `json:"mimetype"`
	Size      int64  `json:"size"`
	Thumbnail string `json:"thumbnail,omitempty"`
}
