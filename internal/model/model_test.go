package model

import (
	"errors"
	"io/fs"
	"testing"
)

func TestPictureType_String(t *testing.T) {
	tests := []struct {
		pt   PictureType
		want string
	}{
		{PictureOther, "Other"},
		{PictureFrontCover, "Front cover"},
		{PictureBackCover, "Back cover"},
		{PictureType(17), "Type 17"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.pt.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewFrontCover(t *testing.T) {
	cover := NewFrontCover(MIMEPNG, []byte{1, 2, 3})

	if cover.PictureType != PictureFrontCover || byte(cover.PictureType) != 3 {
		t.Errorf("PictureType = %d, want 3", cover.PictureType)
	}
	if cover.Description != "Cover" {
		t.Errorf("Description = %q, want %q", cover.Description, "Cover")
	}
	if cover.Size() != 3 {
		t.Errorf("Size() = %d, want 3", cover.Size())
	}
}

func TestRow_Fields(t *testing.T) {
	tests := []struct {
		name        string
		fields      map[string]string
		albumCol    string
		artCol      string
		wantAlbum   string
		wantArt     string
		wantMissing []string
	}{
		{
			name:      "default columns",
			fields:    map[string]string{"Album": " /music/a ", "Art": "/art/a.png"},
			wantAlbum: "/music/a",
			wantArt:   "/art/a.png",
		},
		{
			name:        "missing art",
			fields:      map[string]string{"Album": "/music/a"},
			wantAlbum:   "/music/a",
			wantMissing: []string{"Art"},
		},
		{
			name:        "blank album",
			fields:      map[string]string{"Album": "  ", "Art": "x.png"},
			wantArt:     "x.png",
			wantMissing: []string{"Album"},
		},
		{
			name:      "custom columns",
			fields:    map[string]string{"folder": "/m", "image": "/i.jpg"},
			albumCol:  "folder",
			artCol:    "image",
			wantAlbum: "/m",
			wantArt:   "/i.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := NewRow(2, tt.fields, tt.albumCol, tt.artCol)
			if got := row.Album(); got != tt.wantAlbum {
				t.Errorf("Album() = %q, want %q", got, tt.wantAlbum)
			}
			if got := row.Art(); got != tt.wantArt {
				t.Errorf("Art() = %q, want %q", got, tt.wantArt)
			}
			missing := row.Missing()
			if len(missing) != len(tt.wantMissing) {
				t.Fatalf("Missing() = %v, want %v", missing, tt.wantMissing)
			}
			for i := range missing {
				if missing[i] != tt.wantMissing[i] {
					t.Errorf("Missing()[%d] = %q, want %q", i, missing[i], tt.wantMissing[i])
				}
			}
		})
	}
}

func TestRow_ZeroValueUsesDefaultColumns(t *testing.T) {
	row := Row{Line: 3, Fields: map[string]string{"Album": "/a", "Art": "/b"}}

	target := row.Target()
	if target.Folder != "/a" || target.Art != "/b" || target.Line != 3 {
		t.Errorf("Target() = %+v", target)
	}
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"http://example.com/a.png", true},
		{"HTTPS://example.com/a.png", true},
		{"/art/cover.png", false},
		{"cover.png", false},
		{"ftp://example.com/a.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsRemote(tt.path); got != tt.want {
				t.Errorf("IsRemote(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestTarget_Name(t *testing.T) {
	target := Target{Folder: "/music/album1/"}
	if got := target.Name(); got != "album1" {
		t.Errorf("Name() = %q, want %q", got, "album1")
	}
}

func TestPathError(t *testing.T) {
	err := Wrap(ErrNotFound, "stat", "/missing/folder", fs.ErrNotExist)

	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = false")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is(err, fs.ErrNotExist) = false")
	}
	if Kind(err) != ErrNotFound {
		t.Errorf("Kind() = %v, want ErrNotFound", Kind(err))
	}

	want := "not found: stat: '/missing/folder': file does not exist"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap_NilKind(t *testing.T) {
	err := Wrap(nil, "save", "a.mp3", nil)
	if !errors.Is(err, ErrTagWrite) {
		t.Error("nil kind should default to ErrTagWrite")
	}
	if Kind(errors.New("plain")) != nil {
		t.Error("Kind() of an unmarked error should be nil")
	}
}

func TestOutcome_Skipped(t *testing.T) {
	if !(Outcome{Err: ErrNotFound}).Skipped() {
		t.Error("outcome with error and no attempts should be skipped")
	}
	if (Outcome{Err: ErrTagWrite, Failed: 1}).Skipped() {
		t.Error("outcome with attempts should not be skipped")
	}
}
