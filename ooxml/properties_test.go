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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadProperties(t *testing.T) {
	p := newTestPackage(t, testParts())

	properties := ReadProperties(p, nopLogger{})

	assert.Equal(t, "Quarterly Report", properties.Get(PropertyTitle))
	assert.Equal(t, "Alice", properties.Get(PropertyCreator))
	assert.Equal(t, "Bob", properties.Get(PropertyLastModifiedBy))
	assert.Equal(t, "4", properties.Get(PropertyRevision))
	assert.Equal(t, "2024-01-01T10:00:00Z", properties.Get(PropertyCreated))
	assert.Equal(t, "2024-01-02T10:00:00Z", properties.Get(PropertyModified))

	assert.Equal(t, "Normal.dotm", properties.Get(PropertyTemplate))
	assert.Equal(t, "Microsoft Office Word", properties.Get(PropertyApplication))

	// Numeric statistics are reported verbatim, even when stale.
	assert.Equal(t, "999", properties.Get(PropertyPages))
	assert.Equal(t, "12", properties.Get(PropertyWords))

	// Properties missing from the parts resolve to the empty string.
	assert.Equal(t, "", properties.Get(PropertySubject))
	assert.Equal(t, "", properties.Get(PropertyCompany))
}

func TestReadPropertiesPartsAbsent(t *testing.T) {
	p := newTestPackage(t, map[string]string{DocumentPart: testDocument})

	properties := ReadProperties(p, nopLogger{})
	for _, name := range AllProperties {
		assert.Equal(t, "", properties.Get(name))
	}
}

func TestReadComments(t *testing.T) {
	p := newTestPackage(t, testParts())

	comments, present := ReadComments(p, nopLogger{})
	assert.True(t, present)
	assert.Len(t, comments, 2)

	assert.Equal(t, "1", comments[0].ID)
	assert.Equal(t, "Alice", comments[0].Author)
	assert.Equal(t, "A", comments[0].Initials)
	assert.Equal(t, "2024-01-03T09:00:00Z", comments[0].Date)
	assert.Equal(t, "First note", comments[0].Text)

	assert.Equal(t, "Second", comments[1].Text)
}

func TestReadCommentsAbsent(t *testing.T) {
	p := newTestPackage(t, map[string]string{DocumentPart: testDocument})

	comments, present := ReadComments(p, nopLogger{})
	assert.False(t, present)
	assert.Empty(t, comments)
}

func TestReadCommentsEmptyPart(t *testing.T) {
	// An empty comments part is present without holding any comment.
	parts := map[string]string{
		DocumentPart: testDocument,
		CommentsPart: `<w:comments xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
	}
	p := newTestPackage(t, parts)

	comments, present := ReadComments(p, nopLogger{})
	assert.True(t, present)
	assert.Empty(t, comments)
}

func TestReadHyperlinks(t *testing.T) {
	hyperlinks, err := ReadHyperlinks([]byte(testDocument))
	assert.NoError(t, err)
	assert.Len(t, hyperlinks, 1)

	// Scheme prefixes in the display text are defanged.
	assert.Equal(t, "hxxp://example.com", hyperlinks[0].Text)
	assert.Equal(t, "rId4", hyperlinks[0].RelID)
}

func TestReadHyperlinksDefangsHTTPSOnce(t *testing.T) {
	document := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body><w:p><w:hyperlink r:id="rId7"><w:r><w:t>https://example.com/http-guide</w:t></w:r></w:hyperlink></w:p></w:body></w:document>`

	hyperlinks, err := ReadHyperlinks([]byte(document))
	assert.NoError(t, err)
	assert.Len(t, hyperlinks, 1)
	assert.Equal(t, "hxxps://example.com/hxxp-guide", hyperlinks[0].Text)
}
