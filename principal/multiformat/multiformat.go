package multiformat

import (
	"bytes"
	"fmt"

	"github.com/multiformats/go-varint"
)

// TagWith prefixes bytes with the varint encoded multicodec code.
func TagWith(code uint64, bytes []byte) []byte {
	offset := varint.UvarintSize(code)
	tagged := make([]byte, len(bytes)+offset)
	varint.PutUvarint(tagged, code)
	copy(tagged[offset:], bytes)
	return tagged
}

// UntagWith strips the varint encoded code from the source bytes starting at
// offset, failing if the tag found there is a different code.
func UntagWith(code uint64, source []byte, offset int) ([]byte, error) {
	if offset < 0 || offset > len(source) {
		return nil, fmt.Errorf("offset %d out of range for %d bytes", offset, len(source))
	}
	b := source[offset:]

	tag, err := varint.ReadUvarint(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("reading multiformat tag: %w", err)
	}

	if tag != code {
		return nil, fmt.Errorf("expected multiformat with 0x%x tag instead got 0x%x", code, tag)
	}

	return b[varint.UvarintSize(code):], nil
}

// HasTag reports whether the bytes start with exactly the varint encoding of
// code. It never fails, so it is usable in predicates.
func HasTag(code uint64, b []byte) bool {
	size := varint.UvarintSize(code)
	if len(b) < size {
		return false
	}
	tag, n, err := varint.FromUvarint(b)
	return err == nil && n == size && tag == code
}
