package archive

import (
	"context"
	"net/http"
	"testing"
)

func TestItemFiles(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/metadata/apollo11/files" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"result":[
			{"name":"./launch.mp4","source":"original","format":"MPEG4","size":"1024"},
			{"name":"./launch.gif","source":"derivative","format":"Animated GIF"}
		]}`))
	})
	defer srv.Close()

	files := c.ItemFiles(context.Background(), "apollo11")
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if files[0].Name != "./launch.mp4" || files[0].Source != "original" {
		t.Errorf("first file = %+v", files[0])
	}
}

func TestItemFilesDegradesToEmpty(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "down", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			},
		},
		{
			name: "missing result field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, srv := newTestClient(tc.handler)
			defer srv.Close()

			files := c.ItemFiles(context.Background(), "apollo11")
			if files == nil || len(files) != 0 {
				t.Fatalf("got %v, want empty non-nil slice", files)
			}
		})
	}
}

func TestBestVideoFile(t *testing.T) {
	cases := []struct {
		name  string
		files []FileMetadata
		want  string // name of expected pick, "" for nil
	}{
		{
			name: "original preferred format wins",
			files: []FileMetadata{
				{Name: "./low.mp4", Source: "derivative", Format: "h.264"},
				{Name: "./master.mkv", Source: "original", Format: "Matroska"},
			},
			want: "./master.mkv",
		},
		{
			name: "fallback to mpeg4 mp4",
			files: []FileMetadata{
				{Name: "./clip.ogv", Source: "original", Format: "Ogg Video"},
				{Name: "./clip.mp4", Source: "derivative", Format: "MPEG4"},
			},
			want: "./clip.mp4",
		},
		{
			name: "fallback to any video extension",
			files: []FileMetadata{
				{Name: "./meta.xml", Source: "original", Format: "Metadata"},
				{Name: "./clip.mkv", Source: "derivative"},
			},
			want: "./clip.mkv",
		},
		{
			name: "nothing suitable",
			files: []FileMetadata{
				{Name: "./meta.xml", Source: "original", Format: "Metadata"},
				{Name: "./thumb.jpg", Source: "derivative", Format: "JPEG"},
			},
			want: "",
		},
		{
			name: "original without video extension skipped",
			files: []FileMetadata{
				{Name: "./stream", Source: "original", Format: "H.264"},
				{Name: "./stream.mp4", Source: "derivative", Format: "h.264"},
			},
			want: "./stream.mp4",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BestVideoFile(tc.files)
			if tc.want == "" {
				if got != nil {
					t.Fatalf("got %+v, want nil", got)
				}
				return
			}
			if got == nil || got.Name != tc.want {
				t.Fatalf("got %+v, want %q", got, tc.want)
			}
		})
	}
}

func TestDownloadURL(t *testing.T) {
	c := NewClient("https://archive.example", 10)
	cases := []struct {
		name string
		want string
	}{
		{"./launch.mp4", "https://archive.example/download/apollo11/launch.mp4"},
		{"/launch.mp4", "https://archive.example/download/apollo11/launch.mp4"},
		{"launch.mp4", "https://archive.example/download/apollo11/launch.mp4"},
	}
	for _, tc := range cases {
		if got := c.DownloadURL("apollo11", tc.name); got != tc.want {
			t.Errorf("DownloadURL(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
