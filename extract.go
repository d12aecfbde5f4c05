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

package docxscan

import (
	"crypto/md5" // #nosec
	"encoding/hex"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/forensicanalysis/docxscan/ooxml"
)

// Options control the depth of a single document extraction.
type Options struct {
	// Triage keeps only container and metadata artifacts, the body is not
	// indexed and no comments or hyperlinks are taken.
	Triage bool
	// ComputeHashes enables MD5 digests for the file and its entries.
	ComputeHashes bool
	// Log receives diagnostic messages, defaults to Discard.
	Log Logger
}

// DefaultOptions run a full extraction without hashing.
var DefaultOptions = Options{Log: Discard}

// ExtractionResult holds every artifact taken from a single word
// processing document.
type ExtractionResult struct {
	File       string
	MD5        string
	Entries    []ooxml.PackageEntry
	Properties map[ooxml.Property]string
	Settings   *ooxml.Settings
	Counts     ooxml.ElementCounts
	// RunRevisionUsage maps every catalog rsidR value to its body count,
	// including zero counts for unused values.
	RunRevisionUsage map[string]int
	// Usage holds the observed values of the remaining attribute kinds.
	Usage       map[ooxml.AttrKind]map[string]int
	HasComments bool
	Comments    []ooxml.Comment
	Hyperlinks  []ooxml.Hyperlink
	Triage      bool
}

// Extract opens the document at path and collects its artifacts. A
// document without a readable word/document.xml part is rejected.
func Extract(fs afero.Fs, path string, opts Options) (*ExtractionResult, error) {
	if err := mergo.Merge(&opts, DefaultOptions); err != nil {
		return nil, errors.Wrap(err, "could not apply default options")
	}

	pkg, err := ooxml.OpenFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", path)
	}

	result := &ExtractionResult{File: path, Triage: opts.Triage}

	if opts.ComputeHashes {
		sum := md5.Sum(pkg.Raw()) // #nosec
		result.MD5 = hex.EncodeToString(sum[:])
	}

	result.Entries = pkg.Entries(opts.ComputeHashes, opts.Log)

	properties := ooxml.ReadProperties(pkg, opts.Log)
	result.Properties = map[ooxml.Property]string{}
	for _, name := range ooxml.AllProperties {
		result.Properties[name] = properties.Get(name)
	}

	result.Settings = ooxml.ReadSettings(pkg, opts.Log)

	document, err := pkg.Part(ooxml.DocumentPart)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load mandatory part %s", ooxml.DocumentPart)
	}

	if opts.Triage {
		return result, nil
	}

	index, err := ooxml.IndexDocument(document)
	if err != nil {
		return nil, errors.Wrap(err, "could not index document body")
	}

	result.Counts = index.Counts
	result.RunRevisionUsage = index.ReconcileRunRevisions(result.Settings.RSIDs)
	result.Usage = map[ooxml.AttrKind]map[string]int{}
	for _, kind := range ooxml.AttrKinds {
		if kind == ooxml.RunRevision {
			continue
		}
		result.Usage[kind] = index.Usage(kind)
	}

	result.Comments, result.HasComments = ooxml.ReadComments(pkg, opts.Log)

	result.Hyperlinks, err = ooxml.ReadHyperlinks(document)
	if err != nil {
		return nil, errors.Wrap(err, "could not extract hyperlinks")
	}

	return result, nil
}
