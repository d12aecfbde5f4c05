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

// Package docxscan extracts forensic artifacts from modern word
// processing documents (docx, dotx, dotm).
//
// A document is an OOXML container, a zip archive holding xml parts.
// Extraction collects several artifact families from one document:
//     - Container entries with their raw local header extra fields, which survive
//       zip api normalization only through a manual scan of the archive bytes.
//     - Core and extended document properties, reported verbatim.
//     - Revision save identifiers (RSIDs), reconciled against the catalog
//       declared in the settings part.
//     - Paragraph, run, text and table row counts from the document body.
//     - Comments and hyperlinks, with hyperlink display text defanged.
//
// Extractions are grouped into batches and the results can be written into a
// sqlite report store for review.
package docxscan
