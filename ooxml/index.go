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

package ooxml

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
)

// AttrKind identifies one revision identifier attribute family on
// structural elements. The constant value is the attribute's local name.
type AttrKind string

const (
	RunRevision              AttrKind = "rsidR"
	RunPropertiesRevision    AttrKind = "rsidRPr"
	ParagraphRevision        AttrKind = "rsidP"
	ParagraphDefaultRevision AttrKind = "rsidRDefault"
	RowRevision              AttrKind = "rsidTr"
	ParagraphID              AttrKind = "paraId"
	TextID                   AttrKind = "textId"
)

// AttrKinds lists every tracked attribute kind in report order.
var AttrKinds = []AttrKind{
	RunRevision, RunPropertiesRevision, ParagraphRevision,
	ParagraphDefaultRevision, RowRevision, ParagraphID, TextID,
}

var attrNamespaces = map[AttrKind]string{
	RunRevision:              NamespaceW,
	RunPropertiesRevision:    NamespaceW,
	ParagraphRevision:        NamespaceW,
	ParagraphDefaultRevision: NamespaceW,
	RowRevision:              NamespaceW,
	ParagraphID:              NamespaceW14,
	TextID:                   NamespaceW14,
}

// ElementCounts are the structural element totals of the document part.
type ElementCounts struct {
	Paragraphs int
	Runs       int
	Texts      int
	TableRows  int
}

// Index holds the structural artifacts of the main document part.
type Index struct {
	Counts      ElementCounts
	occurrences map[AttrKind][]string
}

// IndexDocument parses the document part once, collecting the paragraph,
// run, text and table row element sequences together with every revision
// identifier attribute occurrence on them.
func IndexDocument(document []byte) (*Index, error) {
	index := &Index{occurrences: map[AttrKind][]string{}}

	decoder := xml.NewDecoder(bytes.NewReader(document))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "could not parse document part")
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Space != NamespaceW {
			continue
		}

		switch start.Name.Local {
		case "p":
			index.Counts.Paragraphs++
		case "r":
			index.Counts.Runs++
		case "t":
			index.Counts.Texts++
		case "tr":
			index.Counts.TableRows++
		default:
			continue
		}

		for _, kind := range AttrKinds {
			if value := attrValue(start, attrNamespaces[kind], string(kind)); value != "" {
				index.occurrences[kind] = append(index.occurrences[kind], value)
			}
		}
	}
	return index, nil
}

// Usage tallies the occurrences of one attribute kind per distinct value.
// Apart from run revisions no declared catalog exists, so the tally is
// derived purely from what is observed in the document.
func (index *Index) Usage(kind AttrKind) map[string]int {
	tally := map[string]int{}
	for _, value := range index.occurrences[kind] {
		tally[value]++
	}
	return tally
}

// ReconcileRunRevisions tallies run revision usage against the declared
// catalog from the settings part. A declared identifier with no remaining
// occurrence keeps its zero count: all content from that editing session
// was deleted from the document. Usage observed outside the catalog is not
// reported here. The catalog may contain duplicates; tallying operates on
// the distinct value set.
func (index *Index) ReconcileRunRevisions(catalog []string) map[string]int {
	observed := index.Usage(RunRevision)
	tally := map[string]int{}
	for _, rsid := range catalog {
		tally[rsid] = observed[rsid]
	}
	return tally
}
