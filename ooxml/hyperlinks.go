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
	"strings"

	"github.com/pkg/errors"
)

// Hyperlink is one hyperlink element from the document part. Text holds the
// visible run texts, defanged; RelID is the relationship identifier and is
// reported unchanged.
type Hyperlink struct {
	Text  string
	RelID string
}

// ReadHyperlinks walks the hyperlink elements of the document part in
// document order. The visible run texts inside each hyperlink are joined
// and every literal "http" is rewritten to "hxxp", so a report can never be
// followed by accident. The substitution is purely textual and applies to
// the display string only.
func ReadHyperlinks(document []byte) ([]Hyperlink, error) {
	var hyperlinks []Hyperlink

	decoder := xml.NewDecoder(bytes.NewReader(document))
	var texts []string
	inHyperlink := false
	inText := false
	var relID string
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return hyperlinks, errors.Wrap(err, "could not parse document part")
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Space == NamespaceW && t.Name.Local == "hyperlink":
				inHyperlink = true
				texts = nil
				relID = attrValue(t, NamespaceRel, "id")
			case inHyperlink && t.Name.Space == NamespaceW && t.Name.Local == "t":
				inText = true
				texts = append(texts, "")
			}
		case xml.CharData:
			if inText {
				texts[len(texts)-1] += string(t)
			}
		case xml.EndElement:
			switch {
			case t.Name.Space == NamespaceW && t.Name.Local == "t":
				inText = false
			case t.Name.Space == NamespaceW && t.Name.Local == "hyperlink":
				inHyperlink = false
				hyperlinks = append(hyperlinks, Hyperlink{
					Text:  strings.ReplaceAll(strings.Join(texts, ","), "http", "hxxp"),
					RelID: relID,
				})
			}
		}
	}
	return hyperlinks, nil
}
