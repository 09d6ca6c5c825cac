// Package audio writes and reads cover art in MP3 tags.
//
// # Writing
//
// Use the Tagger to attach a cover to an MP3 file:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.EmbedCover(path, model.NewFrontCover("image/png", data))
//
// The cover is written as an ID3v2 APIC frame (picture type 3, "Cover").
// Any earlier picture of the same type is replaced; other pictures are kept
// unless TagConfig.ReplaceAll is set.
//
// # Reading
//
// ReadCover and ReadInfo read a file's tag back, which is how the
// inspect command and the tests verify a write:
//
//	cover, err := audio.ReadCover(path)
//
// Pictures lists every attached picture, not just the first.
package audio
