package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/codec/json"
)

// formEscape escapes like a browser URLSearchParams: '*' stays literal and
// '~' is percent encoded.
func formEscape(s string) string {
	s = url.QueryEscape(s)
	s = strings.ReplaceAll(s, "~", "%7E")
	return strings.ReplaceAll(s, "%2A", "*")
}

type queryParam struct {
	key   string
	value string
}

func encodeParams(params []queryParam) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(formEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(formEscape(p.value))
	}
	return sb.String()
}

// SerializeQuery renders a map node as a query string in key order. Null and
// absent values are skipped, scalars are written as text, and lists and maps
// are written as compact JSON. The result is empty or starts with '?'.
func SerializeQuery(nd datamodel.Node) (string, error) {
	if nd == nil || nd.IsNull() || nd.IsAbsent() {
		return "", nil
	}
	if nd.Kind() != datamodel.Kind_Map {
		return "", fmt.Errorf("query input must be a map, got %s", nd.Kind())
	}
	var params []queryParam
	it := nd.MapIterator()
	for !it.Done() {
		k, v, err := it.Next()
		if err != nil {
			return "", err
		}
		key, err := k.AsString()
		if err != nil {
			return "", err
		}
		if v.IsNull() || v.IsAbsent() {
			continue
		}
		val, err := queryValue(v)
		if err != nil {
			return "", fmt.Errorf("query parameter %q: %w", key, err)
		}
		params = append(params, queryParam{key, val})
	}
	if len(params) == 0 {
		return "", nil
	}
	return "?" + encodeParams(params), nil
}

func queryValue(v datamodel.Node) (string, error) {
	switch v.Kind() {
	case datamodel.Kind_String:
		return v.AsString()
	case datamodel.Kind_Int:
		i, err := v.AsInt()
		return strconv.FormatInt(i, 10), err
	case datamodel.Kind_Float:
		f, err := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64), err
	case datamodel.Kind_Bool:
		b, err := v.AsBool()
		return strconv.FormatBool(b), err
	}
	b, err := json.EncodeNode(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func idQuery(key string, value string) string {
	return "?" + encodeParams([]queryParam{{key, value}})
}
