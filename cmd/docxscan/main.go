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

// Package docxscan implements the docxscan command line tool with
// subcommands to scan word processing documents and review the results.
//     scan      Extract artifacts from word processing documents
//     create    Create an empty report store
//     results   Read scan results from a report store (get, select, all, search)
//
// Usage
//
// Scan documents into a report store
//     docxscan scan --store case.db --hash evidence/
//     docxscan scan --store case.db --triage suspicious.docx
// Review results
//     docxscan results select docx-summary case.db
//     docxscan results search hxxp case.db
//     docxscan results all case.db > export.json
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forensicanalysis/docxscan/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docxscan",
		Short: "Extract forensic artifacts from word processing documents",
	}
	rootCmd.AddCommand(cmd.Scan(), cmd.Create(), cmd.Results())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
