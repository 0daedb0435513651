package urlcodec

import (
	"net/url"
	"slices"
	"strings"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// ParseParams splits a raw query string in its parameters, keeping their
// order. Parts that cannot be unescaped are kept as they are.
func ParseParams(raw string) domain.Params {
	raw = strings.TrimPrefix(raw, "?")
	res := make(domain.Params, 0)
	for part := range strings.SplitSeq(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		res = append(res, domain.Param{Key: unescape(k), Value: unescape(v)})
	}
	return res
}

func unescape(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return u
}

// EncodeParams returns the raw query string of p, in order.
func EncodeParams(p domain.Params) string {
	var sb strings.Builder
	for n, param := range p {
		if n > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(param.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(param.Value))
	}
	return sb.String()
}

// Get returns the first value under key.
func Get(p domain.Params, key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// Set returns p with key set to value. The first occurrence is replaced in
// place and any other occurrence is dropped; a missing key is appended.
func Set(p domain.Params, key, value string) domain.Params {
	res := make(domain.Params, 0, len(p)+1)
	found := false
	for _, param := range p {
		if param.Key != key {
			res = append(res, param)
			continue
		}
		if !found {
			res = append(res, domain.Param{Key: key, Value: value})
			found = true
		}
	}
	if !found {
		res = append(res, domain.Param{Key: key, Value: value})
	}
	return res
}

// Del returns p without any occurrence of key.
func Del(p domain.Params, key string) domain.Params {
	return slices.DeleteFunc(slices.Clone(p), func(param domain.Param) bool {
		return param.Key == key
	})
}
