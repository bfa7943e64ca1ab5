package blob

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/multiformats/go-multibase"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/hash/sha256"
	"github.com/seed-hypermedia/go-hmblob/principal"
)

const (
	tsidTimeSize = 6
	tsidHashSize = 4
	tsidSize     = tsidTimeSize + tsidHashSize
)

var ErrInvalidContactID = errors.New("Invalid contact ID format")

// TSID identifies a mutable record. It binds the creation timestamp to the
// creation blob bytes, and sorts roughly by time.
type TSID string

// NewTSID derives a TSID from the low 48 bits of ts followed by the first
// four bytes of the SHA-256 of data.
func NewTSID(ts int64, data []byte) TSID {
	var b [tsidSize]byte
	var t [8]byte
	binary.BigEndian.PutUint64(t[:], uint64(ts))
	copy(b[:tsidTimeSize], t[8-tsidTimeSize:])
	d, err := sha256.Hasher.Sum(data)
	if err != nil {
		panic(fmt.Errorf("hashing TSID: %w", err))
	}
	copy(b[tsidTimeSize:], d.Prefix(tsidHashSize))
	s, err := multibase.Encode(multibase.Base58BTC, b[:])
	if err != nil {
		panic(fmt.Errorf("encoding TSID: %w", err))
	}
	return TSID(s)
}

func (t TSID) String() string {
	return string(t)
}

// Parse returns the timestamp and hash prefix embedded in the TSID.
func (t TSID) Parse() (time.Time, []byte, error) {
	enc, b, err := multibase.Decode(string(t))
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("decoding TSID: %w", err)
	}
	if enc != multibase.Base58BTC {
		return time.Time{}, nil, fmt.Errorf("unexpected TSID encoding: %c", enc)
	}
	if len(b) != tsidSize {
		return time.Time{}, nil, fmt.Errorf("invalid TSID length: %d wanted: %d", len(b), tsidSize)
	}
	var ts [8]byte
	copy(ts[8-tsidTimeSize:], b[:tsidTimeSize])
	ms := int64(binary.BigEndian.Uint64(ts[:]))
	return time.UnixMilli(ms), b[tsidTimeSize:], nil
}

// RecordID joins the authority and TSID of a mutable record.
func RecordID(authority principal.Principal, tsid TSID) string {
	return authority.String() + "/" + string(tsid)
}

// SplitRecordID is the inverse of RecordID. Both halves must be non-empty, but
// neither is decoded.
func SplitRecordID(id string) (string, TSID, error) {
	parts := strings.Split(id, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrInvalidContactID
	}
	return parts[0], TSID(parts[1]), nil
}
