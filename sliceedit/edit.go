// Copyright 2023 Jesus Ruiz. All rights reserved.
// Use of this source code is governed by an Apache-2.0
// license that can be found in the LICENSE file.

// Package sliceedit extends the functionalities of rsc.io/edit to
// queue many deletions and replacements over a source text and apply
// them with a single allocation.
// Unlike rsc.io/edit, overlapping edits are refused instead of panicking,
// so callers can queue edits found by independent scans.
package sliceedit

import (
	"bytes"
	"sort"

	"rsc.io/edit"
)

// A Buffer is a queue of edits to apply to a given byte slice.
type Buffer struct {
	ed     edit.Buffer
	buf    []byte
	ranges []span // sorted by start, never overlapping
}

type span struct {
	start, end int
}

// NewBuffer returns a new buffer to accumulate changes to an initial data slice.
// The returned buffer maintains a reference to the data, so the caller must ensure
// the data is not modified until after the Buffer is done being used.
func NewBuffer(buf []byte) *Buffer {
	b := &Buffer{}
	b.buf = buf
	b.ed = *edit.NewBuffer(buf)
	return b
}

// NewBufferString is like NewBuffer for a string.
func NewBufferString(s string) *Buffer {
	return NewBuffer([]byte(s))
}

// Edits returns the number of queued edits.
func (b *Buffer) Edits() int {
	return len(b.ranges)
}

// reserve records [start,end) as edited. It fails if the range is invalid
// or overlaps a range already queued. Two insertions at the same point overlap.
func (b *Buffer) reserve(start, end int) bool {
	if start < 0 || end < start || end > len(b.buf) {
		return false
	}
	i := sort.Search(len(b.ranges), func(i int) bool { return b.ranges[i].end > start })
	if i < len(b.ranges) && b.ranges[i].start < end {
		return false
	}
	if i < len(b.ranges) && start == end && b.ranges[i].start == start {
		return false
	}
	if i > 0 && b.ranges[i-1].start == start && b.ranges[i-1].end == start {
		return false
	}
	b.ranges = append(b.ranges, span{})
	copy(b.ranges[i+1:], b.ranges[i:])
	b.ranges[i] = span{start, end}
	return true
}

// Overlaps reports whether [start,end) touches a queued edit.
func (b *Buffer) Overlaps(start, end int) bool {
	for _, r := range b.ranges {
		if r.start < end && start < r.end {
			return true
		}
	}
	return false
}

// Delete queues the deletion of buf[start:end].
// It reports false, queueing nothing, when the range overlaps a previous edit.
func (b *Buffer) Delete(start, end int) bool {
	if !b.reserve(start, end) {
		return false
	}
	b.ed.Delete(start, end)
	return true
}

// Replace queues the replacement of buf[start:end] with new.
func (b *Buffer) Replace(start, end int, new string) bool {
	if !b.reserve(start, end) {
		return false
	}
	b.ed.Replace(start, end, new)
	return true
}

// FindAll finds all non-overlapping instances of item in buf.
func FindAll(buf []byte, item string) []int {
	found := []int{}

	if len(item) == 0 {
		return found
	}

	realOffset := 0

	for {
		i := bytes.Index(buf, []byte(item))
		if i == -1 {
			return found
		}
		found = append(found, i+realOffset)
		buf = buf[i+len(item):]
		realOffset = realOffset + i + len(item)
	}
}

// DeleteAllString deletes every occurrence of s not already covered by an edit.
// It returns the number of deletions queued.
func (b *Buffer) DeleteAllString(s string) int {
	n := 0
	for _, hit := range FindAll(b.buf, s) {
		if b.Delete(hit, hit+len(s)) {
			n++
		}
	}
	return n
}

// ReplaceAllString replaces every occurrence of old not already covered by an edit.
func (b *Buffer) ReplaceAllString(old string, new string) int {
	n := 0
	for _, hit := range FindAll(b.buf, old) {
		if b.Replace(hit, hit+len(old), new) {
			n++
		}
	}
	return n
}

// Bytes returns a new byte slice containing the original data
// with the queued edits applied.
func (b *Buffer) Bytes() []byte {
	return b.ed.Bytes()
}

// String returns a string containing the original data
// with the queued edits applied.
func (b *Buffer) String() string {
	return string(b.ed.Bytes())
}
