package audio

import (
	"errors"
	"io/fs"

	"github.com/bogem/id3v2"

	"github.com/handiism/albumart/internal/model"
)

// TagConfig controls how covers are written.
//
// Example:
//
//	cfg := &TagConfig{
//	    ReplaceAll: false, // keep back covers, artist photos, ...
//	    Version:    4,     // write ID3v2.4
//	}
type TagConfig struct {
	// ReplaceAll removes every attached picture before writing the cover.
	// When false only pictures of the cover's own type are replaced.
	ReplaceAll bool

	// Version is the ID3v2 major version to write (3 or 4).
	// Zero keeps whatever version the file already carries.
	Version byte
}

// DefaultTagConfig returns the default tag configuration.
//
// By default only the picture of the same type is replaced and the
// file's tag version is preserved.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{}
}

// Tagger writes cover art into MP3 files.
//
// Tagger uses the id3v2 library to attach an APIC frame to the file's
// tag. The write happens in place and is not transactional: no backup is
// made and a failure during save may leave the file unchanged or damaged,
// depending on where id3v2 stops.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//
//	cover := model.NewFrontCover("image/png", pngBytes)
//	if err := tagger.EmbedCover("/music/album/01.mp3", cover); err != nil {
//	    log.Printf("tagging failed: %v", err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// EmbedCover writes cover into the tag of the MP3 at path.
//
// This method:
//  1. Opens the file and parses its ID3v2 tag (an absent tag is fine)
//  2. Removes existing pictures of the cover's type
//  3. Adds the cover as an attached picture frame
//  4. Saves the tag back into the file
//
// A blank description becomes model.DefaultDescription and a blank MIME
// type becomes image/jpeg.
//
// Every failure is returned marked model.ErrTagWrite and names the path.
func (t *Tagger) EmbedCover(path string, cover model.Cover) error {
	if len(cover.Data) == 0 {
		return model.Wrap(model.ErrTagWrite, "empty cover", path, nil)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Wrap(model.ErrTagWrite, "open", path, errors.Join(model.ErrNotFound, err))
		}
		return model.Wrap(model.ErrTagWrite, "open", path, err)
	}
	defer tag.Close()

	if v := t.config.Version; v == 3 || v == 4 {
		tag.SetVersion(v)
	}

	t.updateArtwork(tag, cover)

	if err := tag.Save(); err != nil {
		return model.Wrap(model.ErrTagWrite, "save", path, err)
	}

	return nil
}

// updateArtwork swaps the cover into the tag's attached picture frames.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, cover model.Cover) {
	id := tag.CommonID("Attached picture")

	var keep []id3v2.PictureFrame
	if !t.config.ReplaceAll {
		for _, f := range tag.GetFrames(id) {
			pic, ok := f.(id3v2.PictureFrame)
			if ok && pic.PictureType != byte(cover.PictureType) {
				keep = append(keep, pic)
			}
		}
	}

	tag.DeleteFrames(id)
	for _, pic := range keep {
		tag.AddAttachedPicture(pic)
	}

	description := cover.Description
	if description == "" {
		description = model.DefaultDescription
	}
	mimeType := cover.MIMEType
	if mimeType == "" {
		mimeType = model.MIMEJPEG
	}

	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    textEncoding(tag.Version()),
		MimeType:    mimeType,
		PictureType: byte(cover.PictureType),
		Description: description,
		Picture:     cover.Data,
	})
}

// Pictures returns every attached picture in the MP3 at path, in tag order.
func Pictures(path string) ([]model.Cover, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Attached picture"}})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.Wrap(model.ErrNotFound, "open", path, err)
		}
		return nil, err
	}
	defer tag.Close()

	var covers []model.Cover
	for _, f := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		covers = append(covers, model.Cover{
			MIMEType:    pic.MimeType,
			PictureType: model.PictureType(pic.PictureType),
			Description: pic.Description,
			Data:        pic.Picture,
		})
	}
	return covers, nil
}

// textEncoding picks an encoding valid for the tag version: UTF-8 only
// exists from ID3v2.4 on.
func textEncoding(version byte) id3v2.Encoding {
	if version >= 4 {
		return id3v2.EncodingUTF8
	}
	return id3v2.EncodingUTF16
}
