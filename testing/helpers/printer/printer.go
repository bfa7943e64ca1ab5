package printer

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/printer"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/block"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/codec/cbor"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/hash/sha256"
	"github.com/seed-hypermedia/go-hmblob/principal"
	"github.com/stretchr/testify/require"
)

func withIndent(t *testing.T, level int) func(format string, args ...any) {
	indent := strings.Repeat("  ", level)
	return func(format string, args ...any) {
		t.Logf(indent+format, args...)
	}
}

// PrintBlob logs the CID, envelope fields and content of an encoded blob.
func PrintBlob(t *testing.T, data []byte, level int) {
	t.Helper()
	log := withIndent(t, level)

	c, err := block.Sum(data, cbor.Code, sha256.Hasher)
	require.NoError(t, err)
	nd, err := cbor.DecodeNode(data)
	require.NoError(t, err)

	log("%s (%s)", c, SprintBytes(t, len(data)))
	if typ, err := nd.LookupByString("type"); err == nil {
		s, _ := typ.AsString()
		log("  Type: %s", s)
	}
	if signer, err := nd.LookupByString("signer"); err == nil {
		b, _ := signer.AsBytes()
		log("  Signer: %s", principal.Principal(b))
	}
	if ts, err := nd.LookupByString("ts"); err == nil {
		ms, _ := ts.AsInt()
		log("  Time: %s", time.UnixMilli(ms).UTC().Format(time.RFC3339Nano))
	}
	log("  Content:\n%s", printer.Sprint(nd))
}

func PrintNode(t *testing.T, n datamodel.Node) {
	t.Helper()
	t.Log(printer.Sprint(n))
}

func SprintBytes(t *testing.T, b int) string {
	t.Helper()
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func PrintHeaders(t *testing.T, h http.Header) {
	t.Helper()
	for name, values := range h {
		for _, value := range values {
			t.Logf("%s: %s", name, value)
		}
	}
}
