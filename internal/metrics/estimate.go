package metrics

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

const dataURIMarker = "base64,"

// pathKeys are the dictionary keys (lowercased) whose string values are
// treated as screenshot file paths. Strings found anywhere else are never
// stat'ed, to avoid false positives on arbitrary output text.
var pathKeys = map[string]bool{
	"path":            true,
	"screenshot_path": true,
	"file":            true,
	"filepath":        true,
}

// base64PayloadLen estimates the number of base64 characters embedded in v.
// Data-URI payloads count from the "base64," marker; long strings whose
// trailing 64 characters are entirely base64 alphabet are counted whole.
// Containers are walked recursively. Any failure yields 0.
func base64PayloadLen(v any) (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	return base64Len(v)
}

func base64Len(v any) int {
	switch val := v.(type) {
	case nil:
		return 0
	case string:
		return base64StringLen(val)
	case map[string]any:
		total := 0
		for _, item := range val {
			total += base64Len(item)
		}
		return total
	case []any:
		total := 0
		for _, item := range val {
			total += base64Len(item)
		}
		return total
	}
	return walkContainer(v, base64Len)
}

func base64StringLen(s string) int {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, dataURIMarker); idx != -1 {
		return len(s) - idx - len(dataURIMarker)
	}
	// Heuristic: a long string that ends in 64 base64-alphabet characters is
	// treated as a standalone base64 payload. Good enough for estimates.
	if len(s) > 64 && isBase64Alphabet(s[len(s)-64:]) {
		return len(s)
	}
	return 0
}

func isBase64Alphabet(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '+' || c == '/' || c == '=':
		default:
			return false
		}
	}
	return true
}

// pathBytes sums the on-disk sizes of files referenced by recognized path
// keys anywhere inside v. Containers are walked recursively; any failure
// yields 0.
func pathBytes(v any) (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	return pathLen(v)
}

func pathLen(v any) int {
	switch val := v.(type) {
	case nil, string:
		return 0
	case map[string]any:
		total := 0
		for key, item := range val {
			if s, ok := item.(string); ok && pathKeys[strings.ToLower(key)] {
				total += sizeForPath(s)
				continue
			}
			total += pathLen(item)
		}
		return total
	case []any:
		total := 0
		for _, item := range val {
			total += pathLen(item)
		}
		return total
	}
	return walkContainer(v, pathLen)
}

func sizeForPath(p string) int {
	if p == "" {
		return 0
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return 0
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	p = os.ExpandEnv(p)
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return 0
	}
	return int(info.Size())
}

// walkContainer recurses into typed maps and slices that didn't match the
// plain-any cases, converting elements back through fn.
func walkContainer(v any, fn func(any) int) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return 0
		}
		return fn(rv.Elem().Interface())
	case reflect.Map:
		total := 0
		iter := rv.MapRange()
		for iter.Next() {
			total += fn(iter.Value().Interface())
		}
		return total
	case reflect.Slice, reflect.Array:
		total := 0
		for i := 0; i < rv.Len(); i++ {
			total += fn(rv.Index(i).Interface())
		}
		return total
	}
	return 0
}

// estimateScreenshotTokens converts accumulated screenshot payload sizes
// into an estimated input-token cost: base64 characters map to roughly one
// token per 4 characters; raw bytes are first expanded to their
// base64-equivalent length.
func estimateScreenshotTokens(base64Chars, bytesTotal int) int {
	if base64Chars > 0 {
		return base64Chars / 4
	}
	if bytesTotal > 0 {
		return (bytesTotal * 4 / 3) / 4
	}
	return 0
}
