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
)

// Settings holds the artifacts of the settings part: the declared revision
// save identifier catalog, the root identifier and the document ids stamped
// by different Word generations.
//
// RSIDs keeps the order as written and is not deduplicated. Duplicates, if a
// producer ever writes any, can be forensically meaningful. rsidRoot is a
// separate element and not part of the catalog.
type Settings struct {
	RSIDs    []string
	RSIDRoot string
	W14DocID string
	W15DocID string
	W16DocID string
}

// ReadSettings parses the settings part. An absent part is a normal state of
// the input and yields empty values.
func ReadSettings(p *Package, log Logger) *Settings {
	settings := &Settings{}

	content, err := p.Part(SettingsPart)
	if err != nil {
		log.Debugf("%q does not exist in %q", SettingsPart, p.Path())
		return settings
	}

	decoder := xml.NewDecoder(bytes.NewReader(content))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		switch {
		case start.Name.Space == NamespaceW && start.Name.Local == "rsid":
			if value := attrValue(start, NamespaceW, "val"); value != "" {
				settings.RSIDs = append(settings.RSIDs, value)
			}
		case start.Name.Space == NamespaceW && start.Name.Local == "rsidRoot":
			settings.RSIDRoot = attrValue(start, NamespaceW, "val")
		case start.Name.Local == "docId":
			switch start.Name.Space {
			case NamespaceW14:
				settings.W14DocID = attrValue(start, NamespaceW14, "val")
			case NamespaceW15:
				settings.W15DocID = attrValue(start, NamespaceW15, "val")
			case NamespaceW16:
				settings.W16DocID = attrValue(start, NamespaceW16, "val")
			}
		}
	}
	return settings
}

func attrValue(start xml.StartElement, space, local string) string {
	for _, attr := range start.Attr {
		if attr.Name.Space == space && attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
