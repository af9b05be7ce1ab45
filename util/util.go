//  Copyright (c) 2026 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package util implements utility functions shared by the GetPut analyzers.
package util

import (
	"go/token"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/getput/config"
)

// PortionAfterSep returns the suffix of the passed string `input` containing at most `occ` occurrences
// of the separator `sep`
func PortionAfterSep(input, sep string, occ int) string {
	splits := strings.Split(input, sep)
	n := len(splits)
	if n <= occ+1 {
		return input // input contains at most `occ` occurrences of `sep`
	}
	return strings.Join(splits[n-(1+occ):], sep)
}

// TruncatePosition keeps only the file name and its config.DirLevelsToPrintForTriggers enclosing
// directories in the file name of position, for concise messages.
func TruncatePosition(position token.Position) token.Position {
	position.Filename = PortionAfterSep(position.Filename, "/", config.DirLevelsToPrintForTriggers)
	return position
}

var (
	_codeReferencePattern = regexp.MustCompile("`(.*?)`")
	_positionPattern      = regexp.MustCompile(`(?m)^(\t- )([^\s:]+:\d+(?::\d+)?)`)
	_classPattern         = regexp.MustCompile(`is (not nil|nil|true|false)\b`)
)

func newColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	// Pretty printing is requested explicitly, so colors are used even if the output is not a
	// terminal.
	c.EnableColor()
	return c
}

var (
	_errorColor    = newColor(color.FgRed)
	_codeColor     = newColor(color.FgHiMagenta)
	_positionColor = newColor(color.FgCyan)
	_classColor    = newColor(color.Bold)
)

// PrettyPrintErrorMessage is used in error reporting to post process and pretty print the output with colors
func PrettyPrintErrorMessage(msg string) string {
	msg = _classPattern.ReplaceAllStringFunc(msg, func(s string) string { return _classColor.Sprint(s) })
	msg = _codeReferencePattern.ReplaceAllStringFunc(msg, func(s string) string { return _codeColor.Sprint(s) })
	msg = _positionPattern.ReplaceAllString(msg, "${1}"+_positionColor.Sprint("${2}"))
	return _errorColor.Sprint("error: ") + msg
}
