/*
 * Copyright (c) 2020 Siemens AG
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy of
 * this software and associated documentation files (the "Software"), to deal in
 * the Software without restriction, including without limitation the rights to
 * use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
 * the Software, and to permit persons to whom the Software is furnished to do so,
 * subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
 * FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
 * COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
 * IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
 * CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 *
 * Author(s): Jonas Plum
 */

package reportstore

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/forensicanalysis/docxscan"
	"github.com/forensicanalysis/docxscan/ooxml"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	return store
}

func TestNew(t *testing.T) {
	url := filepath.Join(t.TempDir(), "case.db")

	store, err := New(url)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// A second create on the same path is rejected.
	_, err = New(url)
	assert.Equal(t, ErrStoreExists, err)

	store, err = Open(url)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestOpenNotExists(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.db"))
	assert.Equal(t, ErrStoreNotExists, err)
}

func TestStoreInsert(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	tests := []struct {
		name       string
		element    Element
		wantPrefix string
		wantErr    bool
	}{
		{"Insert", Element{"name": "foo", "type": "fo", "int": 0}, "fo--", false},
		{"Insert Same Type", Element{"name": "bar", "type": "ba", "int": 2}, "ba--", false},
		{"Insert With ID", Element{"id": "ba--x", "name": "baz", "type": "ba"}, "ba--x", false},
		{"Insert No Type", Element{"name": "bat"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := store.InsertElement(tt.element)
			if (err != nil) != tt.wantErr {
				t.Errorf("InsertElement() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !strings.HasPrefix(id, tt.wantPrefix) {
				t.Errorf("InsertElement() = %v, want prefix %v", id, tt.wantPrefix)
			}
		})
	}
}

func TestStoreGet(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	id, err := store.InsertElement(Element{"type": "fo", "name": "foo"})
	require.NoError(t, err)

	element, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "foo", gjson.GetBytes(element, "name").String())

	_, err = store.Get("fo--unknown")
	assert.Error(t, err)
}

func TestStoreSelect(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	_, err := store.InsertElement(Element{"type": "fo", "name": "foo"})
	require.NoError(t, err)
	_, err = store.InsertElement(Element{"type": "ba", "name": "bar"})
	require.NoError(t, err)
	_, err = store.InsertElement(Element{"type": "ba", "name": "baz"})
	require.NoError(t, err)

	elements, err := store.Select("ba")
	require.NoError(t, err)
	assert.Len(t, elements, 2)

	elements, err = store.All()
	require.NoError(t, err)
	assert.Len(t, elements, 3)
}

func TestStoreInsertStruct(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	row := NewHyperlinkRow()
	row.File = "test.docx"
	row.Text = "hxxp://example.com"
	row.RelID = "rId4"

	id, err := store.InsertStruct(row)
	require.NoError(t, err)

	element, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, TypeHyperlink, gjson.GetBytes(element, "type").String())
	assert.Equal(t, "rId4", gjson.GetBytes(element, "rel_id").String())
}

func testResult() *docxscan.ExtractionResult {
	return &docxscan.ExtractionResult{
		File: "test.docx",
		MD5:  "d41d8cd98f00b204e9800998ecf8427e",
		Entries: []ooxml.PackageEntry{
			{Name: "word/document.xml", Size: 100, Method: 8, Flags: 0x0008, Modified: "nil", ExtraLength: 0, ExtraDisplay: "nil"},
		},
		Properties: map[ooxml.Property]string{
			ooxml.PropertyTitle: "Quarterly Report",
			ooxml.PropertyPages: "999",
		},
		Settings: &ooxml.Settings{
			RSIDs:    []string{"AAAAAAAA", "BBBBBBBB"},
			RSIDRoot: "AAAAAAAA",
			W14DocID: "24FD4D01",
		},
		Counts:           ooxml.ElementCounts{Paragraphs: 3, Runs: 3, Texts: 3, TableRows: 1},
		RunRevisionUsage: map[string]int{"AAAAAAAA": 3, "BBBBBBBB": 0},
		Usage: map[ooxml.AttrKind]map[string]int{
			ooxml.ParagraphID: {"12345678": 1},
		},
		HasComments: true,
		Comments:    []ooxml.Comment{{ID: "1", Author: "Alice", Initials: "A", Date: "2024-01-03T09:00:00Z", Text: "First note"}},
		Hyperlinks:  []ooxml.Hyperlink{{Text: "hxxp://example.com", RelID: "rId4"}},
	}
}

func TestInsertResult(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ids, err := store.InsertResult(testResult())
	require.NoError(t, err)
	// summary + metadata + 1 entry + 3 counts + 1 comment + 1 hyperlink
	assert.Len(t, ids, 8)

	summaries, err := store.Select(TypeSummary)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(3), gjson.GetBytes(summaries[0], "paragraphs").Int())
	assert.True(t, gjson.GetBytes(summaries[0], "has_comments").Bool())

	metadata, err := store.Select(TypeMetadata)
	require.NoError(t, err)
	require.Len(t, metadata, 1)
	assert.Equal(t, "Quarterly Report", gjson.GetBytes(metadata[0], "title").String())
	assert.Equal(t, "999", gjson.GetBytes(metadata[0], "pages").String())
	assert.Equal(t, "AAAAAAAA", gjson.GetBytes(metadata[0], "rsid_root").String())

	counts, err := store.Select(TypeRSIDCount)
	require.NoError(t, err)
	require.Len(t, counts, 3)
	// The zero count for the unused catalog value is kept.
	var zero bool
	for _, count := range counts {
		if gjson.GetBytes(count, "value").String() == "BBBBBBBB" {
			zero = true
			assert.Equal(t, int64(0), gjson.GetBytes(count, "count").Int())
		}
	}
	assert.True(t, zero)
}

func TestInsertProcessingError(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	_, err := store.InsertProcessingError("broken.docx", "could not open broken.docx")
	require.NoError(t, err)

	failures, err := store.Select(TypeError)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "broken.docx", gjson.GetBytes(failures[0], "file").String())
}
