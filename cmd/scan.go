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

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/forensicanalysis/fsdoublestar"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/forensicanalysis/docxscan"
	"github.com/forensicanalysis/docxscan/reportstore"
)

var documentPatterns = []string{"*.docx", "*.dotx", "*.dotm"}

// Scan is the docxscan scan commandline subcommand
func Scan() *cobra.Command {
	var storeName, logLevel string
	var triage, hash, recursive bool

	scanCommand := &cobra.Command{
		Use:   "scan <file|directory>...",
		Short: "Extract artifacts from word processing documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(logLevel)

			fs := afero.NewOsFs()
			paths, err := collectInputs(fs, args, recursive)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return errors.New("no documents found")
			}

			batch := docxscan.ProcessBatch(fs, paths, docxscan.Options{
				Triage:        triage,
				ComputeHashes: hash,
				Log:           log,
			})

			if storeName != "" {
				if err := writeStore(storeName, batch); err != nil {
					return err
				}
			} else {
				for _, result := range batch.Results {
					b, err := json.Marshal(result)
					if err != nil {
						return err
					}
					fmt.Printf("%s\n", b)
				}
			}

			log.Infof("processed %d documents, %d failed", len(paths), len(batch.Failed))
			return nil
		},
	}
	scanCommand.Flags().StringVar(&storeName, "store", "", "write results into a report store")
	scanCommand.Flags().BoolVar(&triage, "triage", false, "skip body indexing, comments and hyperlinks")
	scanCommand.Flags().BoolVar(&hash, "hash", false, "compute MD5 digests for files and entries")
	scanCommand.Flags().BoolVar(&recursive, "recursive", false, "descend into subdirectories")
	scanCommand.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	return scanCommand
}

func writeStore(storeName string, batch *docxscan.BatchResult) error {
	store, err := reportstore.Open(storeName)
	if err == reportstore.ErrStoreNotExists {
		store, err = reportstore.New(storeName)
	}
	if err != nil {
		return err
	}
	defer store.Close()

	for _, result := range batch.Results {
		if _, err := store.InsertResult(result); err != nil {
			return err
		}
	}
	for _, failure := range batch.Failed {
		if _, err := store.InsertProcessingError(failure.File, failure.Message); err != nil {
			return err
		}
	}
	return nil
}

func collectInputs(fs afero.Fs, args []string, recursive bool) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := fs.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read %s", arg)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		for _, pattern := range documentPatterns {
			if recursive {
				pattern = filepath.Join("**", pattern)
			}
			matches, err := fsdoublestar.Glob(afero.NewIOFS(fs), filepath.ToSlash(filepath.Join(arg, pattern)))
			if err != nil {
				return nil, err
			}
			paths = append(paths, matches...)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}
