package state

import (
	"bytes"
	"strings"
)

// RouterName is an ordered sequence of opaque byte-string components, the
// hierarchical name used to address a router in the NDN namespace. It is
// comparable by component-wise byte equality and supports the prefix/append
// operations the Hello protocol and cost calculator key their state on.
//
// We model this natively rather than importing an NDN name/TLV library: the
// retrieval pack only carries generated structs that reference
// github.com/zjkmxy/go-ndn/pkg/encoding, not the package itself, so there is
// no verified component/prefix API to build against here.
type RouterName []string

// ParseRouterName splits a slash-separated textual name into components,
// e.g. "/nlsr/router/a" -> ["nlsr", "router", "a"]. Empty components
// (leading/trailing/doubled slashes) are dropped.
func ParseRouterName(s string) RouterName {
	parts := strings.Split(s, "/")
	n := make(RouterName, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		n = append(n, p)
	}
	return n
}

// String renders the name back to its slash-separated textual form.
func (n RouterName) String() string {
	return "/" + strings.Join(n, "/")
}

// Equal reports component-wise byte equality.
func (n RouterName) Equal(o RouterName) bool {
	if len(n) != len(o) {
		return false
	}
	for i := range n {
		if n[i] != o[i] {
			return false
		}
	}
	return true
}

// Append returns a new name with components appended, without mutating n.
func (n RouterName) Append(components ...string) RouterName {
	out := make(RouterName, len(n)+len(components))
	copy(out, n)
	copy(out[len(n):], components)
	return out
}

// Prefix returns the first k components when k >= 0, or all but the last
// -k components when k < 0 (mirroring ndn::Name::getPrefix semantics used by
// the Hello protocol: name.getPrefix(-3), name.getPrefix(-4), ...).
func (n RouterName) Prefix(k int) RouterName {
	var end int
	if k >= 0 {
		end = min(k, len(n))
	} else {
		end = len(n) + k
		if end < 0 {
			end = 0
		}
	}
	out := make(RouterName, end)
	copy(out, n[:end])
	return out
}

// At returns the component at index i, or "" if out of range. Negative
// indices count from the end, e.g. At(-1) is the last component.
func (n RouterName) At(i int) string {
	if i < 0 {
		i += len(n)
	}
	if i < 0 || i >= len(n) {
		return ""
	}
	return n[i]
}

// EncodeComponent wraps an opaque byte blob (e.g. a wire-encoded router
// name) as a single name component, matching the way the Hello probe's
// final component carries the sender's name as an opaque TLV blob.
func EncodeComponent(blob []byte) string {
	return string(blob)
}

// DecodeComponent is the inverse of EncodeComponent.
func DecodeComponent(component string) []byte {
	return []byte(component)
}

// EncodeRouterName produces the opaque wire blob nested inside a probe's
// final name component: the sender's full router name, slash-joined.
func EncodeRouterName(n RouterName) []byte {
	var buf bytes.Buffer
	buf.WriteString(n.String())
	return buf.Bytes()
}

// DecodeRouterName is the inverse of EncodeRouterName.
func DecodeRouterName(blob []byte) RouterName {
	return ParseRouterName(string(blob))
}
