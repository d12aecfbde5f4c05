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
)

// Namespaces referenced by Word processing packages.
const (
	NamespaceW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceW14     = "http://schemas.microsoft.com/office/word/2010/wordml"
	NamespaceW15     = "http://schemas.microsoft.com/office/word/2012/wordml"
	NamespaceW16     = "http://schemas.microsoft.com/office/word/2018/wordml"
	NamespaceCore    = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	NamespaceDC      = "http://purl.org/dc/elements/1.1/"
	NamespaceDCTerms = "http://purl.org/dc/terms/"
	NamespaceApp     = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	NamespaceRel     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Property is one named core or application document property. The set of
// known properties is closed: each name is bound at compile time to its
// namespace, which rules out unknown property lookups at runtime.
type Property string

// Core properties (docProps/core.xml).
const (
	PropertyTitle          Property = "title"
	PropertySubject        Property = "subject"
	PropertyCreator        Property = "creator"
	PropertyKeywords       Property = "keywords"
	PropertyDescription    Property = "description"
	PropertyRevision       Property = "revision"
	PropertyCreated        Property = "created"
	PropertyModified       Property = "modified"
	PropertyLastModifiedBy Property = "lastModifiedBy"
	PropertyLastPrinted    Property = "lastPrinted"
	PropertyCategory       Property = "category"
	PropertyContentStatus  Property = "contentStatus"
	PropertyLanguage       Property = "language"
	PropertyVersion        Property = "version"
)

// Application properties (docProps/app.xml).
const (
	PropertyTemplate             Property = "Template"
	PropertyTotalTime            Property = "TotalTime"
	PropertyPages                Property = "Pages"
	PropertyWords                Property = "Words"
	PropertyCharacters           Property = "Characters"
	PropertyApplication          Property = "Application"
	PropertyDocSecurity          Property = "DocSecurity"
	PropertyLines                Property = "Lines"
	PropertyParagraphs           Property = "Paragraphs"
	PropertyCharactersWithSpaces Property = "CharactersWithSpaces"
	PropertyAppVersion           Property = "AppVersion"
	PropertyManager              Property = "Manager"
	PropertyCompany              Property = "Company"
	PropertySharedDoc            Property = "SharedDoc"
	PropertyHyperlinksChanged    Property = "HyperlinksChanged"
)

// AllProperties lists every known property in report order.
var AllProperties = []Property{
	PropertyCreator, PropertyCreated, PropertyLastModifiedBy, PropertyModified,
	PropertyLastPrinted, PropertyManager, PropertyCompany, PropertyRevision,
	PropertyTotalTime, PropertyPages, PropertyParagraphs, PropertyLines,
	PropertyWords, PropertyCharacters, PropertyCharactersWithSpaces,
	PropertyTitle, PropertySubject, PropertyKeywords, PropertyDescription,
	PropertyApplication, PropertyAppVersion, PropertyTemplate,
	PropertyDocSecurity, PropertyCategory, PropertyContentStatus,
	PropertyLanguage, PropertyVersion, PropertySharedDoc,
	PropertyHyperlinksChanged,
}

var propertyNamespaces = map[Property]string{
	PropertyTitle:          NamespaceDC,
	PropertySubject:        NamespaceDC,
	PropertyCreator:        NamespaceDC,
	PropertyKeywords:       NamespaceCore,
	PropertyDescription:    NamespaceDC,
	PropertyRevision:       NamespaceCore,
	PropertyCreated:        NamespaceDCTerms,
	PropertyModified:       NamespaceDCTerms,
	PropertyLastModifiedBy: NamespaceCore,
	PropertyLastPrinted:    NamespaceCore,
	PropertyCategory:       NamespaceCore,
	PropertyContentStatus:  NamespaceCore,
	PropertyLanguage:       NamespaceDC,
	PropertyVersion:        NamespaceCore,

	PropertyTemplate:             NamespaceApp,
	PropertyTotalTime:            NamespaceApp,
	PropertyPages:                NamespaceApp,
	PropertyWords:                NamespaceApp,
	PropertyCharacters:           NamespaceApp,
	PropertyApplication:          NamespaceApp,
	PropertyDocSecurity:          NamespaceApp,
	PropertyLines:                NamespaceApp,
	PropertyParagraphs:           NamespaceApp,
	PropertyCharactersWithSpaces: NamespaceApp,
	PropertyAppVersion:           NamespaceApp,
	PropertyManager:              NamespaceApp,
	PropertyCompany:              NamespaceApp,
	PropertySharedDoc:            NamespaceApp,
	PropertyHyperlinksChanged:    NamespaceApp,
}

// Properties resolves namespace qualified lookups over the core and
// application property parts. A missing part or property yields the empty
// string, never an error: absence is a normal input state.
type Properties struct {
	values map[xml.Name]string
}

// ReadProperties parses the core and application property parts of a
// package. Values are kept verbatim. Numeric counters like page and word
// counts are known to go stale when the producer does not rewrite them on
// save; they are reported as written, not validated.
func ReadProperties(p *Package, log Logger) *Properties {
	properties := &Properties{values: map[xml.Name]string{}}
	for _, part := range []string{CorePropertiesPart, AppPropertiesPart} {
		content, err := p.Part(part)
		if err != nil {
			log.Debugf("%q does not exist in %q", part, p.Path())
			continue
		}
		properties.parse(content, log)
	}
	return properties
}

// Get returns the textual value of a known property or the empty string.
func (properties *Properties) Get(name Property) string {
	space, ok := propertyNamespaces[name]
	if !ok {
		return ""
	}
	return properties.values[xml.Name{Space: space, Local: string(name)}]
}

// parse collects the text of every element directly below the part root.
// Both property parts are flat: one child element per property.
func (properties *Properties) parse(content []byte, log Logger) {
	decoder := xml.NewDecoder(bytes.NewReader(content))
	var current xml.Name
	var text strings.Builder
	depth := 0
	for {
		token, err := decoder.Token()
		if err != nil {
			if err != io.EOF {
				log.Debugf("property parsing stopped: %s", err)
			}
			return
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				current = t.Name
				text.Reset()
			}
		case xml.CharData:
			if depth == 2 && current.Local != "" {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 && current.Local != "" {
				properties.values[current] = text.String()
				current = xml.Name{}
			}
			depth--
		}
	}
}
