// Copyright (c) 2019 Nguyễn Quốc Đính
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
// Author(s): Nguyễn Quốc Đính, Jonas Plum
//
// This code was adapted from
// https://github.com/nqd/flat/blob/master/flat.go

// Package flatten turns nested Go maps into maps one level deep, with
// nested keys joined by dots. Report store rows must not contain nested
// objects, so every element is flattened before insertion.
package flatten

import (
	"fmt"
	"reflect"
	"strconv"
)

// Flatten returns a map one level deep regardless of how nested the
// original map was. Nested keys are joined with ".", slice elements get
// their index as key.
func Flatten(nested map[string]interface{}) (map[string]interface{}, error) {
	return flatten("", nested)
}

func flatten(prefix string, nested interface{}) (map[string]interface{}, error) {
	flat := map[string]interface{}{}

	if nested == nil {
		return flat, nil
	}

	value := reflect.ValueOf(nested)
	switch value.Type().Kind() {
	case reflect.Map:
		for _, k := range value.MapKeys() {
			sub, err := flatten(join(prefix, fmt.Sprint(k.Interface())), value.MapIndex(k).Interface())
			if err != nil {
				return nil, err
			}
			for key, v := range sub {
				flat[key] = v
			}
		}
	case reflect.Slice:
		for i := 0; i < value.Len(); i++ {
			sub, err := flatten(join(prefix, strconv.Itoa(i)), value.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			for key, v := range sub {
				flat[key] = v
			}
		}
	default:
		flat[prefix] = nested
	}
	return flat, nil
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
