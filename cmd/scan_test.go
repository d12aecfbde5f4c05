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
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectInputs(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{
		"evidence/a.docx",
		"evidence/b.dotm",
		"evidence/notes.txt",
		"evidence/sub/c.dotx",
		"loose.docx",
	} {
		require.NoError(t, afero.WriteFile(fs, name, []byte("x"), 0644))
	}

	paths, err := collectInputs(fs, []string{"evidence"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"evidence/a.docx", "evidence/b.dotm"}, paths)

	paths, err = collectInputs(fs, []string{"evidence"}, true)
	require.NoError(t, err)
	assert.Contains(t, paths, "evidence/sub/c.dotx")

	paths, err = collectInputs(fs, []string{"loose.docx"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"loose.docx"}, paths)

	_, err = collectInputs(fs, []string{"missing.docx"}, false)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	log := newLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	// Unknown levels fall back to info.
	log = newLogger("bogus")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
