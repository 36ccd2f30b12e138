// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package teximg handles texture image encoding and decoding for the
// exporter: sniffing the format of embedded texture bytes, decoding,
// saving under a format implied by the file extension, and optional
// downscaling of oversized textures.
package teximg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Formats are the supported texture image formats.
type Formats int32

// The supported texture image formats.
const (
	None Formats = iota
	PNG
	JPEG
	GIF
	TIFF
	BMP
	WebP
)

func (f Formats) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case GIF:
		return "gif"
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	case WebP:
		return "webp"
	}
	return "none"
}

// Ext returns the canonical filename extension for the format,
// including the leading dot.
func (f Formats) Ext() string {
	switch f {
	case JPEG:
		return ".jpg"
	case None:
		return ""
	}
	return "." + f.String()
}

// ExtToFormat returns a Format based on a filename extension, which
// can start with a . or not.
func ExtToFormat(ext string) (Formats, error) {
	if len(ext) == 0 {
		return None, errors.New("ExtToFormat: ext is empty")
	}
	if ext[0] == '.' {
		ext = ext[1:]
	}
	ext = strings.ToLower(ext)
	switch ext {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	case "webp":
		return WebP, nil
	}
	return None, fmt.Errorf("ExtToFormat: extension %q not recognized", ext)
}

// Sniff returns the format of the given encoded image bytes, based on
// their magic numbers, without decoding.
func Sniff(data []byte) (Formats, error) {
	kind, err := filetype.Image(data)
	if err != nil {
		return None, fmt.Errorf("teximg.Sniff: %w", err)
	}
	return ExtToFormat(kind.Extension)
}

// Decode decodes embedded texture bytes, returning the image and its
// sniffed format.
func Decode(data []byte) (image.Image, Formats, error) {
	f, err := Sniff(data)
	if err != nil {
		return nil, None, err
	}
	im, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, f, err
	}
	return im, f, nil
}

// Open opens a texture image from the given filename. The format is
// inferred from the contents.
func Open(filename string) (image.Image, Formats, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, None, err
	}
	defer file.Close()
	return Read(file)
}

// Read reads a texture image from the given reader, inferring the
// format from the contents.
func Read(r io.Reader) (image.Image, Formats, error) {
	im, ext, err := image.Decode(r)
	if err != nil {
		return im, None, err
	}
	f, err := ExtToFormat(ext)
	return im, f, err
}

// Save saves the image to the given filename, with the format
// inferred from the filename extension. webp is decode-only and is
// saved as png.
func Save(im image.Image, filename string) error {
	ext := filepath.Ext(filename)
	f, err := ExtToFormat(ext)
	if err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(file)
	if err := Write(im, bw, f); err != nil {
		file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Write writes the image to the given writer using the given format.
func Write(im image.Image, w io.Writer, f Formats) error {
	switch f {
	case PNG, WebP:
		return png.Encode(w, im)
	case JPEG:
		return jpeg.Encode(w, im, &jpeg.Options{Quality: 90})
	case GIF:
		return gif.Encode(w, im, nil)
	case TIFF:
		return tiff.Encode(w, im, nil)
	case BMP:
		return bmp.Encode(w, im)
	}
	return fmt.Errorf("teximg.Write: format %v not supported", f)
}

// DownscaleTo returns the image downscaled so that neither dimension
// exceeds max, preserving aspect ratio. Images already within bounds
// are returned as-is. max <= 0 disables scaling.
func DownscaleTo(im image.Image, max int) image.Image {
	if max <= 0 {
		return im
	}
	b := im.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return im
	}
	if w >= h {
		h = h * max / w
		w = max
	} else {
		w = w * max / h
		h = max
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return transform.Resize(im, w, h, transform.Linear)
}
