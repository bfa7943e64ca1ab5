// Package hmid packs and parses Hypermedia resource identifiers of the form
// hm://uid/path?v=version&l#blockRef[start:end].
package hmid

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const Scheme = "hm"

var (
	ErrMissingUID = errors.New("uid is required")
	ErrInvalidID  = errors.New("invalid hypermedia id")
)

// BlockRange selects part of a referenced block. When Expanded is set the
// whole block including its children is meant and Start and End are unused.
type BlockRange struct {
	Start    int
	End      int
	Expanded bool
}

func (r *BlockRange) String() string {
	if r == nil {
		return ""
	}
	if r.Expanded {
		return "+"
	}
	return fmt.Sprintf("[%d:%d]", r.Start, r.End)
}

// ID is an unpacked hypermedia identifier.
type ID struct {
	UID      string
	Path     []string
	Version  string
	Latest   bool
	BlockRef string
	// BlockRange is only written when BlockRef is set.
	BlockRange *BlockRange
	// Hostname is set when the id was parsed from a web gateway URL.
	Hostname string
}

// New returns the id of the document at path in the space of uid.
func New(uid string, path ...string) ID {
	return ID{UID: uid, Path: path}
}

// BaseID is the id without version or fragment. Empty path segments are
// dropped.
func (id ID) BaseID() string {
	return Scheme + "://" + id.UID + QueryPath(id.Path)
}

// Pack serializes the id. It fails only when UID is empty.
func (id ID) Pack() (string, error) {
	if id.UID == "" {
		return "", ErrMissingUID
	}
	var sb strings.Builder
	sb.WriteString(id.BaseID())
	var query []string
	if id.Version != "" {
		query = append(query, "v="+id.Version)
	}
	if id.Latest {
		query = append(query, "l")
	}
	if len(query) > 0 {
		sb.WriteString("?")
		sb.WriteString(strings.Join(query, "&"))
	}
	if id.BlockRef != "" {
		sb.WriteString("#")
		sb.WriteString(id.BlockRef)
		sb.WriteString(id.BlockRange.String())
	}
	return sb.String(), nil
}

// String is Pack ignoring the error, for logging.
func (id ID) String() string {
	s, err := id.Pack()
	if err != nil {
		return ""
	}
	return s
}

// WithBlock returns a copy of the id pointing at a block of a specific
// version.
func (id ID) WithBlock(blockRef string, version string) ID {
	out := id
	out.BlockRef = blockRef
	out.BlockRange = nil
	if version != "" {
		out.Version = version
	}
	return out
}

// QueryPath renders path segments the way entity queries expect them: "/a/b",
// or "" for the root document.
func QueryPath(path []string) string {
	var parts []string
	for _, p := range path {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "/" + strings.Join(parts, "/")
}

// Parse unpacks an hm:// id, or a web gateway URL of the form
// https://host/hm/uid/path.
func Parse(s string) (ID, error) {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok || rest == "" {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	rest, fragment, _ := strings.Cut(rest, "#")
	rawPath, rawQuery, _ := strings.Cut(rest, "?")
	segments := strings.Split(rawPath, "/")

	var id ID
	switch scheme {
	case "https", "http":
		if len(segments) < 3 || segments[1] != "hm" {
			return ID{}, fmt.Errorf("%w: %q is not a gateway URL", ErrInvalidID, s)
		}
		id.Hostname = segments[0]
		id.UID = segments[2]
		id.Path = segments[3:]
	case Scheme:
		id.UID = segments[0]
		id.Path = segments[1:]
	default:
		return ID{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidID, scheme)
	}
	if id.UID == "" {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	if len(id.Path) == 0 {
		id.Path = nil
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %s", ErrInvalidID, err)
	}
	id.Version = query.Get("v")
	if _, ok := query["l"]; ok {
		id.Latest = query.Get("l") == ""
	}
	id.BlockRef, id.BlockRange = ParseFragment(fragment)
	return id, nil
}

var fragmentRE = regexp.MustCompile(`^(\S{8})((\+)|\[(\d+):(\d+)\])?$`)

// ParseFragment splits a URL fragment into a block id and an optional range.
// Fragments that do not look like a block reference are returned whole as the
// block id.
func ParseFragment(fragment string) (string, *BlockRange) {
	if fragment == "" {
		return "", nil
	}
	m := fragmentRE.FindStringSubmatch(fragment)
	if m == nil {
		return fragment, nil
	}
	switch {
	case m[3] == "+":
		return m[1], &BlockRange{Expanded: true}
	case m[4] != "":
		start, _ := strconv.Atoi(m[4])
		end, _ := strconv.Atoi(m[5])
		return m[1], &BlockRange{Start: start, End: end}
	}
	return m[1], nil
}
