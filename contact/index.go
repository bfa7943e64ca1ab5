package contact

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/seed-hypermedia/go-hmblob/blob"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/block"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/codec/cbor"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/hash/sha256"
	"github.com/seed-hypermedia/go-hmblob/principal"
)

var log = logging.Logger("hmblob/contact")

var IndexSize = 1024

// Record is the current state of a contact record.
type Record struct {
	ID      string
	Account principal.Principal
	Subject principal.Principal
	Name    string
	// CreateTime is zero until the creation blob has been applied.
	CreateTime int64
	UpdateTime int64
	Deleted    bool
	// Head is the CID of the blob the current state comes from.
	Head cid.Cid
}

// Index folds contact blobs into records. The latest blob by timestamp wins,
// with ties going to the greater CID, so the result does not depend on the
// order blobs are applied in.
type Index struct {
	mu      sync.Mutex
	records *lru.Cache[string, Record]
}

// NewIndex creates an index holding at most size records. Pass a value less
// than 1 to use [IndexSize].
func NewIndex(size int) (*Index, error) {
	if size <= 0 {
		size = IndexSize
	}
	cache, err := lru.New[string, Record](size)
	if err != nil {
		return nil, fmt.Errorf("creating contact LRU: %w", err)
	}
	return &Index{records: cache}, nil
}

// Apply adds a contact blob to the index and returns the resulting record.
// Blobs with an invalid signature are ignored and reported as not applied.
func (x *Index) Apply(data []byte) (Record, bool, error) {
	if !blob.VerifyBytes(data) {
		log.Debugw("ignoring contact blob with invalid signature", "size", len(data))
		return Record{}, false, nil
	}
	c, err := readContact(data)
	if err != nil {
		return Record{}, false, err
	}
	head, err := block.Sum(data, cbor.Code, sha256.Hasher)
	if err != nil {
		return Record{}, false, err
	}
	id := recordID(c, data)

	x.mu.Lock()
	defer x.mu.Unlock()

	rec, ok := x.records.Get(id)
	if !ok {
		rec = Record{ID: id, Account: c.Signer}
	}
	if c.ID == nil {
		rec.CreateTime = c.Ts
	}
	if ok && !newer(c.Ts, head, rec) {
		log.Debugw("ignoring stale contact blob", "record", id, "cid", head)
		x.records.Add(id, rec)
		return rec, false, nil
	}
	rec.UpdateTime = c.Ts
	rec.Head = head
	rec.Deleted = c.IsTombstone()
	if rec.Deleted {
		rec.Subject, rec.Name = nil, ""
	} else {
		rec.Subject = c.Subject
		if c.Name != nil {
			rec.Name = *c.Name
		}
	}
	x.records.Add(id, rec)
	return rec, true, nil
}

func newer(ts int64, head cid.Cid, rec Record) bool {
	if ts != rec.UpdateTime {
		return ts > rec.UpdateTime
	}
	return bytes.Compare(head.Bytes(), rec.Head.Bytes()) > 0
}

// Get returns a record by id, including deleted records.
func (x *Index) Get(id string) (Record, bool) {
	return x.records.Peek(id)
}

// ListByAccount returns the live records created by account, ordered by id.
func (x *Index) ListByAccount(account principal.Principal) []Record {
	prefix := account.String() + "/"
	return x.list(func(r Record) bool {
		return strings.HasPrefix(r.ID, prefix)
	})
}

// ListBySubject returns the live records about subject, ordered by id.
func (x *Index) ListBySubject(subject principal.Principal) []Record {
	return x.list(func(r Record) bool {
		return r.Subject.Equal(subject)
	})
}

func (x *Index) list(match func(Record) bool) []Record {
	var out []Record
	for _, r := range x.records.Values() {
		if !r.Deleted && match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
