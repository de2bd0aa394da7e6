package normalizer

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// canonicalize rewrites the document with every object key lower-cased and
// trimmed. Key order is preserved.
func canonicalize(raw []byte) gjson.Result {
	var buf bytes.Buffer
	buf.Grow(len(raw))
	writeCanonical(gjson.ParseBytes(raw), &buf)
	return gjson.ParseBytes(buf.Bytes())
}

func writeCanonical(r gjson.Result, buf *bytes.Buffer) {
	switch {
	case r.IsObject():
		buf.WriteByte('{')
		first := true
		r.ForEach(func(k, v gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			key, _ := json.Marshal(strings.ToLower(strings.TrimSpace(k.String())))
			buf.Write(key)
			buf.WriteByte(':')
			writeCanonical(v, buf)
			return true
		})
		buf.WriteByte('}')
	case r.IsArray():
		buf.WriteByte('[')
		first := true
		r.ForEach(func(_, v gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			writeCanonical(v, buf)
			return true
		})
		buf.WriteByte(']')
	default:
		buf.WriteString(strings.TrimSpace(r.Raw))
	}
}

// objectKeys returns the keys of an object in document order.
func objectKeys(obj gjson.Result) []string {
	if !obj.IsObject() {
		return nil
	}
	var keys []string
	obj.ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys
}

// lookup returns the first member of obj whose key equals one of keys. It
// avoids gjson path syntax so keys may contain dots or wildcards.
func lookup(obj gjson.Result, keys ...string) gjson.Result {
	if !obj.IsObject() {
		return gjson.Result{}
	}
	for _, want := range keys {
		if want == "" {
			continue
		}
		var found gjson.Result
		obj.ForEach(func(k, v gjson.Result) bool {
			if k.String() == want {
				found = v
				return false
			}
			return true
		})
		if found.Exists() {
			return found
		}
	}
	return gjson.Result{}
}
