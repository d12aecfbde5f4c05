// Copyright (c) 2020 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

// Package ooxml reads Office Open XML Word processing packages and extracts
// the forensic artifacts they contain: archive entry metadata, document
// properties, revision save identifiers, comments and hyperlinks. The package
// is opened read only and nothing is ever written back.
package ooxml

import (
	"archive/zip"
	"bytes"
	"crypto/md5" // #nosec
	"encoding/hex"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/forensicanalysis/docxscan/zipscan"
)

// Canonical part paths inside a Word processing package.
const (
	DocumentPart       = "word/document.xml"
	SettingsPart       = "word/settings.xml"
	CommentsPart       = "word/comments.xml"
	CorePropertiesPart = "docProps/core.xml"
	AppPropertiesPart  = "docProps/app.xml"
)

// ErrPartAbsent is returned when a package does not contain a part under
// either path variant. Many parts are legitimately optional.
var ErrPartAbsent = errors.New("part does not exist")

// Logger is the diagnostics sink supplied by the caller. Extraction code
// never writes to a terminal or file directly.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// PackageEntry is one archive member, combining central directory metadata
// with the extra field recovered from the matching local file header.
type PackageEntry struct {
	Name           string
	Size           uint64
	Method         uint16
	CreateSystem   uint8
	CreateVersion  uint8
	ExtractVersion uint16
	Flags          uint16
	Modified       string
	MD5            string
	ExtraLength    int
	Extra          []byte
	ExtraDisplay   string
}

// Package is an opened Word processing package. It holds the raw file bytes
// in addition to the parsed archive, as the local file header scan operates
// on the raw byte stream. A Package is discarded after one document scan and
// never retained across documents.
type Package struct {
	path    string
	raw     []byte
	reader  *zip.Reader
	headers map[string]zipscan.LocalHeader
}

// OpenFile reads a package from the filesystem.
func OpenFile(fs afero.Fs, path string) (*Package, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read package")
	}
	return Open(raw, path)
}

// Open parses a package from raw bytes. An input that is not a valid zip
// container is a fatal error for the document.
func Open(raw []byte, path string) (*Package, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, errors.Wrapf(err, "%s is not a valid container", path)
	}

	headers := map[string]zipscan.LocalHeader{}
	for _, header := range zipscan.Scan(raw) {
		if _, ok := headers[header.Name]; !ok {
			headers[header.Name] = header
		}
	}

	return &Package{path: path, raw: raw, reader: reader, headers: headers}, nil
}

// Path returns the filesystem path the package was opened from.
func (p *Package) Path() string { return p.path }

// Raw returns the raw package bytes.
func (p *Package) Raw() []byte { return p.raw }

// Part returns the content of the part stored under the canonical forward
// slash path. If the part is absent the backslash variant written by some
// non-compliant producers is tried before ErrPartAbsent is returned.
func (p *Package) Part(canonical string) ([]byte, error) {
	file := p.find(canonical)
	if file == nil {
		file = p.find(strings.ReplaceAll(canonical, "/", "\\"))
	}
	if file == nil {
		return nil, ErrPartAbsent
	}

	rc, err := file.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "could not open part %s", file.Name)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decompress part %s", file.Name)
	}
	return content, nil
}

func (p *Package) find(name string) *zip.File {
	for _, file := range p.reader.File {
		if file.Name == name {
			return file
		}
	}
	return nil
}

// Entries lists every archive member recorded in the central directory,
// one entry per directory record. Entries whose path has no matching
// local header record are a producer inconsistency and reported as a
// diagnostic, not a failure. An entry that fails to decompress during
// hashing keeps its directory metadata and is logged.
func (p *Package) Entries(computeHashes bool, log Logger) []PackageEntry {
	entries := make([]PackageEntry, 0, len(p.reader.File))
	for _, file := range p.reader.File {
		entry := PackageEntry{
			Name:           file.Name,
			Size:           file.UncompressedSize64,
			Method:         file.Method,
			CreateSystem:   uint8(file.CreatorVersion >> 8),
			CreateVersion:  uint8(file.CreatorVersion & 0xff),
			ExtractVersion: file.ReaderVersion,
			Flags:          file.Flags,
			Modified:       formatModified(file.Modified),
			ExtraDisplay:   "nil",
		}

		header, ok := p.headers[file.Name]
		if !ok {
			header, ok = p.headers[strings.ReplaceAll(file.Name, "/", "\\")]
		}
		if ok {
			entry.ExtraLength = header.ExtraLength
			entry.Extra = header.Extra
			entry.ExtraDisplay = zipscan.DisplayExtra(header.Extra)
		} else {
			log.Debugf("no local file header found for %s in %s", file.Name, p.path)
		}

		if computeHashes {
			sum, err := entryMD5(file)
			if err != nil {
				log.Errorf("could not hash %s in %s: %s", file.Name, p.path, err)
			} else {
				entry.MD5 = sum
			}
		}

		entries = append(entries, entry)
	}
	return entries
}

func entryMD5(file *zip.File) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	h := md5.New() // #nosec
	if _, err := io.Copy(h, rc); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

var dosEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// formatModified renders an entry timestamp. Producers that do not record
// modification times leave the DOS epoch sentinel, reported as "nil".
// Depending on the producer the timestamp is local time, UTC or the
// producer's home time zone; it is reported as written.
func formatModified(modified time.Time) string {
	if modified.IsZero() || !modified.After(dosEpoch) {
		return "nil"
	}
	return modified.Format("2006-01-02 15:04:05")
}
