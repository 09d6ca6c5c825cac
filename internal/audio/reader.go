package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dhowden/tag"

	"github.com/handiism/albumart/internal/model"
)

// ErrNoCover is returned when a file carries no embedded picture.
var ErrNoCover = errors.New("no embedded cover")

// Info is what ReadInfo reports about a tagged file.
type Info struct {
	Path   string
	Format string
	Title  string
	Artist string
	Album  string

	// Cover is nil when the file has no picture.
	Cover *model.Cover
}

// pictureTypes maps the names the tag reader uses back to APIC codes.
var pictureTypes = map[string]model.PictureType{
	"Other":                               model.PictureOther,
	"32x32 pixels 'file icon' (PNG only)": model.PictureFileIcon,
	"Cover (front)":                       model.PictureFrontCover,
	"Cover (back)":                        model.PictureBackCover,
}

// ReadCover returns the first picture embedded in the audio file at path.
//
// Returns ErrNoCover if the file has no tag or no picture, and an error
// marked model.ErrNotFound if the file does not exist.
//
// Example:
//
//	cover, err := ReadCover("/music/album/01.mp3")
//	if err == nil {
//	    fmt.Println(cover.MIMEType, len(cover.Data))
//	}
func ReadCover(path string) (model.Cover, error) {
	info, err := ReadInfo(path)
	if err != nil {
		return model.Cover{}, err
	}
	if info.Cover == nil {
		return model.Cover{}, fmt.Errorf("%s: %w", path, ErrNoCover)
	}
	return *info.Cover, nil
}

// ReadInfo reads the tag of the audio file at path.
//
// A file without any recognised tag yields an Info with only Path set.
func ReadInfo(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.Wrap(model.ErrNotFound, "open", path, err)
		}
		return nil, err
	}
	defer f.Close()

	info := &Info{Path: path}

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return info, nil
		}
		return nil, fmt.Errorf("read tags of %s: %w", path, err)
	}

	info.Format = string(m.Format())
	info.Title = m.Title()
	info.Artist = m.Artist()
	info.Album = m.Album()

	if pic := m.Picture(); pic != nil {
		pt, ok := pictureTypes[pic.Type]
		if !ok {
			pt = model.PictureOther
		}
		info.Cover = &model.Cover{
			MIMEType:    pic.MIMEType,
			PictureType: pt,
			Description: pic.Description,
			Data:        pic.Data,
		}
	}

	return info, nil
}
