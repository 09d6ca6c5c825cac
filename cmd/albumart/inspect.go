package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/handiism/albumart/internal/audio"
	ioutils "github.com/handiism/albumart/internal/io"
	"github.com/handiism/albumart/internal/model"
)

func newInspectCommand() *cobra.Command {
	var extractDir string

	cmd := &cobra.Command{
		Use:   "inspect <mp3>...",
		Short: "Show the cover art embedded in MP3 files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			images := ioutils.NewImageService()

			var failed int
			for i, path := range args {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, path)

				pics, err := inspectFile(out, images, path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					continue
				}

				if extractDir == "" {
					continue
				}
				for _, pic := range pics {
					if pic.PictureType != model.PictureFrontCover {
						continue
					}
					dest := filepath.Join(extractDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+extensionFor(pic.MIMEType))
					if err := ioutils.WriteFile(cmd.Context(), dest, pic.Data); err != nil {
						failed++
						fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
						continue
					}
					fmt.Fprintf(out, "  Extracted:   %s\n", dest)
					break
				}
			}

			if failed > 0 {
				return &exitError{code: exitUsage, err: errors.New("some files could not be inspected")}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&extractDir, "extract", "", "Write each file's front cover into this directory")
	return cmd
}

func inspectFile(out io.Writer, images *ioutils.ImageService, path string) ([]model.Cover, error) {
	info, err := audio.ReadInfo(path)
	if err != nil {
		return nil, err
	}
	if info.Format != "" {
		fmt.Fprintf(out, "  Tag:         %s\n", info.Format)
	}
	if info.Album != "" {
		fmt.Fprintf(out, "  Album:       %s\n", info.Album)
	}

	pics, err := audio.Pictures(path)
	if err != nil {
		return nil, err
	}
	if len(pics) == 0 {
		fmt.Fprintln(out, "  Cover:       none")
		return nil, nil
	}

	for _, pic := range pics {
		fmt.Fprintf(out, "  Type:        %s (%d)\n", pic.PictureType, byte(pic.PictureType))
		fmt.Fprintf(out, "  MIME:        %s\n", pic.MIMEType)
		fmt.Fprintf(out, "  Description: %s\n", pic.Description)
		fmt.Fprintf(out, "  Size:        %s\n", humanize.IBytes(uint64(pic.Size())))
		if w, h, err := images.Dimensions(pic.Data); err == nil {
			fmt.Fprintf(out, "  Dimensions:  %dx%d\n", w, h)
		}
	}
	return pics, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case model.MIMEPNG:
		return ".png"
	case model.MIMEJPEG, "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ".bin"
	}
}
