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
	"strings"
)

// Comment is one record from the comments part. Date is the timestamp as
// declared by the producer, reported verbatim.
type Comment struct {
	ID       string
	Date     string
	Author   string
	Initials string
	Text     string
}

// ReadComments parses the comments part in document order. The presence
// flag distinguishes a package without a comments part from one whose
// comments part contains no comments; both yield zero records.
func ReadComments(p *Package, log Logger) (comments []Comment, present bool) {
	content, err := p.Part(CommentsPart)
	if err != nil {
		log.Debugf("%q does not exist in %q", CommentsPart, p.Path())
		return nil, false
	}

	decoder := xml.NewDecoder(bytes.NewReader(content))
	var current *Comment
	var texts []string
	inText := false
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Space != NamespaceW {
				continue
			}
			switch t.Name.Local {
			case "comment":
				current = &Comment{
					ID:       attrValue(t, NamespaceW, "id"),
					Date:     attrValue(t, NamespaceW, "date"),
					Author:   attrValue(t, NamespaceW, "author"),
					Initials: attrValue(t, NamespaceW, "initials"),
				}
				texts = nil
			case "t":
				if current != nil {
					inText = true
					texts = append(texts, "")
				}
			}
		case xml.CharData:
			if inText {
				texts[len(texts)-1] += string(t)
			}
		case xml.EndElement:
			if t.Name.Space != NamespaceW {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "comment":
				if current != nil {
					current.Text = strings.Join(texts, "")
					comments = append(comments, *current)
					current = nil
				}
			}
		}
	}
	return comments, true
}
