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

// Package zipscan recovers zip local file header fields that archive/zip does
// not expose, most importantly the raw extra field bytes written by the
// producing application. Word processors and conversion tools leave different
// extra field patterns behind, which makes them a useful tooling indicator in
// document comparisons.
package zipscan

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
)

// Local file header layout, see APPNOTE.TXT section 4.3.7.
const (
	fixedHeaderLen = 30
	flagsOffset    = 6
	methodOffset   = 8
	nameLenOffset  = 26
	extraLenOffset = 28

	// maxNameLen rejects mis-detected signatures. Coincidental signature
	// bytes inside compressed payloads regularly decode into excessively
	// long filename spans.
	maxNameLen = 256
)

var signature = []byte{'P', 'K', 0x03, 0x04}

// DisplayThreshold is the number of extra field bytes included in report
// output. Extra fields can be several hundred bytes, mostly zero padding,
// so only the leading bytes are displayed. The declared length is always
// reported in full.
const DisplayThreshold = 20

// LocalHeader is one validated local file header found in the raw archive
// bytes.
type LocalHeader struct {
	Offset      int64
	Flags       uint16
	Method      uint16
	Name        string
	ExtraLength int
	Extra       []byte
}

// Scan searches raw archive bytes for local file headers at every offset,
// not only at central directory offsets. Each signature match is validated
// structurally before it is reported: the fixed header and the declared
// filename and extra field spans must fit into the data and the filename
// must decode as printable ASCII of plausible length.
func Scan(data []byte) []LocalHeader {
	var headers []LocalHeader
	offset := 0
	for offset+fixedHeaderLen <= len(data) {
		i := bytes.Index(data[offset:], signature)
		if i < 0 {
			break
		}
		position := offset + i
		if header, ok := parseHeader(data, position); ok {
			headers = append(headers, header)
		}
		offset = position + 1
	}
	return headers
}

func parseHeader(data []byte, position int) (LocalHeader, bool) {
	if position+fixedHeaderLen > len(data) {
		return LocalHeader{}, false
	}

	nameLen := int(binary.LittleEndian.Uint16(data[position+nameLenOffset:]))
	extraLen := int(binary.LittleEndian.Uint16(data[position+extraLenOffset:]))
	if nameLen == 0 || nameLen >= maxNameLen {
		return LocalHeader{}, false
	}

	nameStart := position + fixedHeaderLen
	nameEnd := nameStart + nameLen
	extraEnd := nameEnd + extraLen
	if extraEnd > len(data) {
		return LocalHeader{}, false
	}
	for _, b := range data[nameStart:nameEnd] {
		if b < 0x20 || b > 0x7e {
			return LocalHeader{}, false
		}
	}

	extra := make([]byte, extraLen)
	copy(extra, data[nameEnd:extraEnd])

	return LocalHeader{
		Offset:      int64(position),
		Flags:       binary.LittleEndian.Uint16(data[position+flagsOffset:]),
		Method:      binary.LittleEndian.Uint16(data[position+methodOffset:]),
		Name:        string(data[nameStart:nameEnd]),
		ExtraLength: extraLen,
		Extra:       extra,
	}, true
}

// DisplayExtra renders extra field bytes for report output. A zip entry
// without an extra field returns the explicit "nil" marker, so reports can
// distinguish an absent field from a parsing failure. Longer fields are
// truncated to DisplayThreshold bytes; truncation never changes the length
// reported elsewhere.
func DisplayExtra(extra []byte) string {
	if len(extra) == 0 {
		return "nil"
	}
	display := extra
	if len(display) > DisplayThreshold {
		display = display[:DisplayThreshold]
	}
	values := make([]string, len(display))
	for i, b := range display {
		values[i] = "0x" + strconv.FormatUint(uint64(b), 16)
	}
	return strings.Join(values, ",")
}
