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

import "github.com/spf13/afero"

// ProcessingError records a document that could not be processed.
type ProcessingError struct {
	File    string
	Message string
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Results []*ExtractionResult
	Failed  []ProcessingError
}

// ProcessBatch extracts every given document. A failing document is
// recorded and does not stop the remaining documents from being
// processed.
func ProcessBatch(fs afero.Fs, paths []string, opts Options) *BatchResult {
	log := opts.Log
	if log == nil {
		log = Discard
	}

	batch := &BatchResult{}
	for _, path := range paths {
		log.Infof("processing %s", path)

		result, err := Extract(fs, path, opts)
		if err != nil {
			log.Errorf("processing %s failed: %s", path, err)
			batch.Failed = append(batch.Failed, ProcessingError{File: path, Message: err.Error()})
			continue
		}
		batch.Results = append(batch.Results, result)
	}
	return batch
}
