package sos

import "strings"

// Params is an insertion-ordered set of query parameters. The SOS request
// string is a plain join of key=value pairs in the order they were set.
type Params struct {
	keys   []string
	values map[string]string
}

// NewParams returns params initialised from alternating key/value pairs.
func NewParams(kv ...string) Params {
	p := Params{values: make(map[string]string, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		p.Set(kv[i], kv[i+1])
	}
	return p
}

// Set assigns a value, keeping the original position of an existing key.
func (p *Params) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value for key.
func (p Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the parameter names in insertion order.
func (p Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of parameters.
func (p Params) Len() int {
	return len(p.keys)
}

// Merge sets every parameter of other onto a copy of p.
func (p Params) Merge(other Params) Params {
	out := p.Clone()
	for _, k := range other.keys {
		out.Set(k, other.values[k])
	}
	return out
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	out := Params{
		keys:   make([]string, len(p.keys)),
		values: make(map[string]string, len(p.values)),
	}
	copy(out.keys, p.keys)
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

// only characters that would split or truncate the query are escaped; the
// SOS KVP syntax relies on ':', ',' and '/' arriving verbatim.
var queryEscaper = strings.NewReplacer(
	"%", "%25",
	" ", "%20",
	"&", "%26",
	"#", "%23",
	"+", "%2B",
)

// Encode joins the parameters as key=value pairs separated by '&'.
func (p Params) Encode() string {
	pairs := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		pairs = append(pairs, queryEscaper.Replace(k)+"="+queryEscaper.Replace(p.values[k]))
	}
	return strings.Join(pairs, "&")
}

// requestURL appends the encoded params to the service base URL.
func requestURL(baseURL string, p Params) string {
	return strings.TrimRight(baseURL, "/") + "/?" + p.Encode()
}
