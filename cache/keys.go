package cache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/goliatone/go-catalog-cache/codec"
)

// KeySeparator delimits cache key segments.
const KeySeparator = ":"

// maxKeyLen bounds generated keys. Filter values are caller-supplied, so a
// pathological argument set could otherwise produce arbitrarily large keys.
const maxKeyLen = 256

// BuildKey derives a deterministic cache key from the service name, method
// name, positional args in call order, and keyword args in sorted key order.
// Values are stringified via codec.Stringify, so UUIDs and timestamps use
// their canonical forms.
//
// Sorting the keyword args means two logically identical calls always share
// one key, whatever order the caller built the map in.
func BuildKey(service, method string, args []any, kwargs map[string]any) string {
	var b strings.Builder
	b.WriteString(service)
	b.WriteString(KeySeparator)
	b.WriteString(method)
	b.WriteString(KeySeparator)

	if len(args) > 0 {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = codec.Stringify(arg)
		}
		b.WriteString(strings.Join(parts, KeySeparator))
	}

	if len(kwargs) > 0 {
		names := make([]string, 0, len(kwargs))
		for name := range kwargs {
			names = append(names, name)
		}
		sort.Strings(names)

		pairs := make([]string, len(names))
		for i, name := range names {
			pairs[i] = name + "=" + codec.Stringify(kwargs[name])
		}
		b.WriteString(KeySeparator)
		b.WriteString(strings.Join(pairs, KeySeparator))
	}

	key := b.String()
	if len(key) > maxKeyLen {
		return compactKey(service, method, key)
	}
	return key
}

// compactKey replaces the argument tail of an oversized key with an xxhash
// digest of the full key, keeping the service:method prefix readable for
// debugging. The digest covers the whole key, so distinct argument sets stay
// distinct.
func compactKey(service, method, full string) string {
	return fmt.Sprintf("%s%s%s%s%016x",
		service, KeySeparator, method, KeySeparator, xxhash.Sum64String(full))
}
