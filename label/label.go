// Copyright 2026 Blink Labs Software
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

// Package label validates kimap namespace labels.
//
// The kimap contract does not enforce the label grammar, so any name read back
// from chain data must be checked with Valid before it is trusted.
package label

import "strings"

// NotePrefix marks a label as a note
const NotePrefix = "~"

// Separator joins labels into a full path, most specific label first
const Separator = "."

// Valid reports whether a single label satisfies the kimap grammar.
//
// Ordinary labels are one or more characters from [a-z0-9-]. Note labels are
// NotePrefix followed by one or more characters from [a-z0-9-].
func Valid(label string, isNote bool) bool {
	if isNote {
		if len(label) < 2 || !strings.HasPrefix(label, NotePrefix) {
			return false
		}
		return validChars(label[len(NotePrefix):])
	}
	if len(label) < 1 {
		return false
	}
	return validChars(label)
}

// IsNote reports whether the label carries the note prefix. It does not
// validate the rest of the label.
func IsNote(label string) bool {
	return strings.HasPrefix(label, NotePrefix)
}

// ValidPath reports whether every label in a dotted path is valid. Only the
// leftmost label may be a note.
func ValidPath(path string) bool {
	if path == "" {
		return false
	}
	labels := strings.Split(path, Separator)
	for idx, l := range labels {
		if idx == 0 && IsNote(l) {
			if !Valid(l, true) {
				return false
			}
			continue
		}
		if !Valid(l, false) {
			return false
		}
	}
	return true
}

// Split breaks a path into its leftmost label and the parent path
func Split(path string) (string, string) {
	name, parent, _ := strings.Cut(path, Separator)
	return name, parent
}

// Join builds a full path from a label and its parent path
func Join(name string, parentPath string) string {
	if parentPath == "" {
		return name
	}
	return name + Separator + parentPath
}

func validChars(s string) bool {
	// Any byte >= 0x80 falls through to default, so non-ASCII is rejected
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	return true
}
