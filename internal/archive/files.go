package archive

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// preferredFormats are the original-source formats worth downloading.
var preferredFormats = []string{"MPEG4", "H.264", "Matroska"}

var videoExtensions = []string{".mp4", ".mkv", ".avi"}

// ItemFiles fetches the file listing for an archive item. Failures of any
// kind return an empty list so callers degrade to "no download available"
// instead of surfacing an error.
func (c *Client) ItemFiles(ctx context.Context, identifier string) []FileMetadata {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/metadata/"+identifier+"/files", nil)
	if err != nil {
		return []FileMetadata{}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return []FileMetadata{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return []FileMetadata{}
	}

	var body struct {
		Result []FileMetadata `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return []FileMetadata{}
	}
	if body.Result == nil {
		return []FileMetadata{}
	}
	return body.Result
}

// DownloadURL builds the direct download link for a file of an item. File
// names from the metadata API carry a leading "./" which must not appear in
// the URL path.
func (c *Client) DownloadURL(identifier, name string) string {
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimPrefix(name, "/")
	return c.baseURL + "/download/" + identifier + "/" + name
}

// BestVideoFile picks the most suitable playback/download candidate:
// an original file in a preferred format with a video extension, then any
// MPEG4 .mp4, then any file with a common video extension. Returns nil when
// nothing qualifies.
func BestVideoFile(files []FileMetadata) *FileMetadata {
	for i := range files {
		f := &files[i]
		if f.Source == "original" && f.Format != "" && hasPreferredFormat(f.Format) && hasVideoExtension(f.Name) {
			return f
		}
	}
	for i := range files {
		f := &files[i]
		if f.Format == "MPEG4" && strings.HasSuffix(f.Name, ".mp4") {
			return f
		}
	}
	for i := range files {
		f := &files[i]
		if strings.HasSuffix(f.Name, ".mp4") || strings.HasSuffix(f.Name, ".mkv") {
			return f
		}
	}
	return nil
}

func hasPreferredFormat(format string) bool {
	for _, pf := range preferredFormats {
		if strings.Contains(format, pf) {
			return true
		}
	}
	return false
}

func hasVideoExtension(name string) bool {
	for _, ext := range videoExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
