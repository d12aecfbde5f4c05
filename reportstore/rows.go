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

package reportstore

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/google/uuid"
	"github.com/stoewer/go-strcase"

	"github.com/forensicanalysis/docxscan"
	"github.com/forensicanalysis/docxscan/ooxml"
)

// Element types written by InsertResult.
const (
	TypeSummary      = "docx-summary"
	TypeMetadata     = "docx-metadata"
	TypeArchiveEntry = "docx-archive-entry"
	TypeRSIDCount    = "docx-rsid-count"
	TypeComment      = "docx-comment"
	TypeHyperlink    = "docx-hyperlink"
	TypeError        = "docx-error"
)

// Summary holds the per document overview row.
type Summary struct {
	ID          string
	Type        string
	File        string
	MD5         string
	Triage      bool
	Paragraphs  int
	Runs        int
	Texts       int
	TableRows   int
	HasComments bool
	Comments    int
	Hyperlinks  int
	Entries     int
}

// NewSummary creates a new summary row.
func NewSummary() *Summary {
	return &Summary{ID: TypeSummary + "--" + uuid.New().String(), Type: TypeSummary}
}

// ArchiveEntry holds one container entry row.
type ArchiveEntry struct {
	ID             string
	Type           string
	File           string
	Name           string
	Size           uint64
	Method         uint16
	CreateSystem   uint8
	CreateVersion  uint8
	ExtractVersion uint16
	Flags          string
	Modified       string
	MD5            string
	ExtraLength    int
	Extra          string
}

// NewArchiveEntry creates a new container entry row.
func NewArchiveEntry() *ArchiveEntry {
	return &ArchiveEntry{ID: TypeArchiveEntry + "--" + uuid.New().String(), Type: TypeArchiveEntry}
}

// RSIDCount holds one revision identifier usage row.
type RSIDCount struct {
	ID       string
	Type     string
	File     string
	Kind     string
	Value    string
	Count    int
	RSIDRoot string
}

// NewRSIDCount creates a new revision identifier usage row.
func NewRSIDCount() *RSIDCount {
	return &RSIDCount{ID: TypeRSIDCount + "--" + uuid.New().String(), Type: TypeRSIDCount}
}

// CommentRow holds one document comment.
type CommentRow struct {
	ID        string
	Type      string
	File      string
	CommentID string
	Date      string
	Author    string
	Initials  string
	Text      string
}

// NewCommentRow creates a new comment row.
func NewCommentRow() *CommentRow {
	return &CommentRow{ID: TypeComment + "--" + uuid.New().String(), Type: TypeComment}
}

// HyperlinkRow holds one document hyperlink with defanged display text.
type HyperlinkRow struct {
	ID    string
	Type  string
	File  string
	Text  string
	RelID string
}

// NewHyperlinkRow creates a new hyperlink row.
func NewHyperlinkRow() *HyperlinkRow {
	return &HyperlinkRow{ID: TypeHyperlink + "--" + uuid.New().String(), Type: TypeHyperlink}
}

// ProcessingErrorRow records a document that failed to process.
type ProcessingErrorRow struct {
	ID    string
	Type  string
	File  string
	Error string
}

// NewProcessingErrorRow creates a new processing error row.
func NewProcessingErrorRow() *ProcessingErrorRow {
	return &ProcessingErrorRow{ID: TypeError + "--" + uuid.New().String(), Type: TypeError}
}

// InsertResult fans a single extraction result out into its report rows
// and returns the inserted element ids.
func (store *Store) InsertResult(result *docxscan.ExtractionResult) ([]string, error) { // nolint:gocyclo
	var ids []string

	summary := NewSummary()
	summary.File = result.File
	summary.MD5 = result.MD5
	summary.Triage = result.Triage
	summary.Paragraphs = result.Counts.Paragraphs
	summary.Runs = result.Counts.Runs
	summary.Texts = result.Counts.Texts
	summary.TableRows = result.Counts.TableRows
	summary.HasComments = result.HasComments
	summary.Comments = len(result.Comments)
	summary.Hyperlinks = len(result.Hyperlinks)
	summary.Entries = len(result.Entries)
	id, err := store.InsertStruct(summary)
	if err != nil {
		return nil, err
	}
	ids = append(ids, id)

	metadata := Element{
		"id":   TypeMetadata + "--" + uuid.New().String(),
		"type": TypeMetadata,
		"file": result.File,
	}
	for _, name := range ooxml.AllProperties {
		metadata[strcase.SnakeCase(string(name))] = result.Properties[name]
	}
	root := ""
	if result.Settings != nil {
		root = result.Settings.RSIDRoot
		metadata["rsid_root"] = result.Settings.RSIDRoot
		metadata["w14_doc_id"] = result.Settings.W14DocID
		metadata["w15_doc_id"] = result.Settings.W15DocID
		metadata["w16_doc_id"] = result.Settings.W16DocID
	}
	id, err = store.InsertElement(metadata)
	if err != nil {
		return nil, err
	}
	ids = append(ids, id)

	for i := range result.Entries {
		entry := &result.Entries[i]
		row := NewArchiveEntry()
		row.File = result.File
		row.Name = entry.Name
		row.Size = entry.Size
		row.Method = entry.Method
		row.CreateSystem = entry.CreateSystem
		row.CreateVersion = entry.CreateVersion
		row.ExtractVersion = entry.ExtractVersion
		row.Flags = fmt.Sprintf("%#06x", entry.Flags)
		row.Modified = entry.Modified
		row.MD5 = entry.MD5
		row.ExtraLength = entry.ExtraLength
		row.Extra = entry.ExtraDisplay
		id, err = store.InsertStruct(row)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	countIDs, err := store.insertCounts(result.File, root, ooxml.RunRevision, result.RunRevisionUsage)
	if err != nil {
		return nil, err
	}
	ids = append(ids, countIDs...)
	for _, kind := range ooxml.AttrKinds {
		if kind == ooxml.RunRevision {
			continue
		}
		countIDs, err = store.insertCounts(result.File, root, kind, result.Usage[kind])
		if err != nil {
			return nil, err
		}
		ids = append(ids, countIDs...)
	}

	for _, comment := range result.Comments {
		row := NewCommentRow()
		row.File = result.File
		row.CommentID = comment.ID
		row.Date = comment.Date
		row.Author = comment.Author
		row.Initials = comment.Initials
		row.Text = comment.Text
		id, err = store.InsertStruct(row)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	for _, hyperlink := range result.Hyperlinks {
		row := NewHyperlinkRow()
		row.File = result.File
		row.Text = hyperlink.Text
		row.RelID = hyperlink.RelID
		id, err = store.InsertStruct(row)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// InsertProcessingError records a failed document.
func (store *Store) InsertProcessingError(file, message string) (string, error) {
	row := NewProcessingErrorRow()
	row.File = file
	row.Error = message
	return store.InsertStruct(row)
}

func (store *Store) insertCounts(file, root string, kind ooxml.AttrKind, usage map[string]int) ([]string, error) {
	values := make([]string, 0, len(usage))
	for value := range usage {
		values = append(values, value)
	}
	sort.Strings(values)

	var ids []string
	for _, value := range values {
		row := NewRSIDCount()
		row.File = file
		row.Kind = string(kind)
		row.Value = value
		row.Count = usage[value]
		row.RSIDRoot = root
		id, err := store.InsertStruct(row)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func lower(f interface{}) interface{} {
	switch f := f.(type) {
	case []interface{}:
		for i := range f {
			if !isEmptyValue(reflect.ValueOf(f[i])) {
				f[i] = lower(f[i])
			}
		}
		return f
	case map[string]interface{}:
		lf := make(map[string]interface{}, len(f))
		for k, v := range f {
			if !isEmptyValue(reflect.ValueOf(v)) {
				lf[strcase.SnakeCase(k)] = lower(v)
			}
		}
		return lf
	default:
		return f
	}
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
