package fixture

import (
	"crypto/sha1" //nolint:gosec // content addressing, not security
	"encoding/hex"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
)

// File name suffixes for each fixture file kind.
const (
	RecordSuffix      = ".response.json"
	BareContentSuffix = ".content.json"
	contentInfix      = ".content"
)

// HashFunc turns a normalized query into the hash part of a fixture name.
type HashFunc func(data []byte) string

// SHA1Hex is the default HashFunc: lower-case hex SHA-1.
func SHA1Hex(data []byte) string {
	sum := sha1.Sum(data) //nolint:gosec // content addressing, not security
	return hex.EncodeToString(sum[:])
}

// RequestKey locates the fixtures of a request.
type RequestKey struct {
	// Folder is the host followed by the path segments, slash separated.
	Folder string
	// LongName is METHOD.hash(Query), or METHOD when Query is empty.
	LongName string
	// ShortName is METHOD alone and names the path's default fixture.
	ShortName string
	// Query is the normalized, filtered query the hash was taken of.
	Query string
}

// Names returns the lookup names in tier order, without duplicates.
func (k RequestKey) Names() []string {
	if k.LongName == k.ShortName {
		return []string{k.ShortName}
	}
	return []string{k.LongName, k.ShortName}
}

// ID identifies the key across folders.
func (k RequestKey) ID() string {
	return path.Join(k.Folder, k.LongName)
}

// RecordName returns the response.json file name for a lookup name.
func RecordName(name string) string {
	return name + RecordSuffix
}

// BareContentName returns the content-only fixture name for a lookup name.
func BareContentName(name string) string {
	return name + BareContentSuffix
}

// ContentName returns the content file name for a lookup name and a file
// extension including its leading dot.
func ContentName(name, ext string) string {
	return name + contentInfix + ext
}

// DeriveKey computes the key of a request. filter may be nil. hash
// defaults to SHA1Hex.
func DeriveKey(u *url.URL, method string, filter ParameterFilter, hash HashFunc) RequestKey {
	if hash == nil {
		hash = SHA1Hex
	}
	if method == "" {
		method = http.MethodGet
	}
	method = strings.ToUpper(method)

	query := NormalizeQuery(u.RawQuery, filter)
	key := RequestKey{
		Folder:    Folder(u),
		LongName:  method,
		ShortName: method,
		Query:     query,
	}
	if query != "" {
		key.LongName = method + "." + hash([]byte(query))
	}
	return key
}

// Folder returns the host name followed by the non-empty path segments,
// in their original case. The port is not part of the folder.
func Folder(u *url.URL) string {
	host := u.Hostname()
	if host == "" {
		host = "localhost"
	}
	segments := []string{host}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		segments = append(segments, seg)
	}
	return strings.Join(segments, "/")
}

type parameter struct {
	name  string
	value string
}

// NormalizeQuery lower-cases every query parameter, drops the ones filter
// reports true for, sorts the rest by name and joins them as name=value
// pairs separated by '&'. A parameter without a value serializes as
// "name=", so "key" and "key=" normalize identically.
func NormalizeQuery(rawQuery string, filter ParameterFilter) string {
	if rawQuery == "" {
		return ""
	}

	var params []parameter
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		p := parameter{
			name:  strings.ToLower(unescape(name)),
			value: strings.ToLower(unescape(value)),
		}
		if filter != nil && filter(p.name, p.value) {
			continue
		}
		params = append(params, p)
	}

	sort.SliceStable(params, func(i, j int) bool {
		return params[i].name < params[j].name
	})

	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.name)
		b.WriteByte('=')
		b.WriteString(p.value)
	}
	return b.String()
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}
