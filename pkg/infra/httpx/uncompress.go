package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/valyala/fasthttp"
)

// DecodeChain decodes a response body according to its Content-Encoding header.
// Chained encodings ("gzip, br") are unwound in reverse order. Supported
// algorithms: br, gzip, zstd, deflate (zlib-wrapped or raw).
// Returns the decoded body and whether any decoding was applied.
func DecodeChain(resp *fasthttp.Response, body []byte) ([]byte, bool, error) {
	ce := string(resp.Header.Peek("Content-Encoding"))
	if ce == "" {
		return body, false, nil
	}
	segments := strings.Split(ce, ",")
	changed := false
	for i := len(segments) - 1; i >= 0; i-- {
		encoding := strings.TrimSpace(strings.ToLower(segments[i]))
		out, applied, err := decodeSegment(encoding, body)
		if err != nil {
			return nil, false, err
		}
		body = out
		changed = changed || applied
	}
	return body, changed, nil
}

func decodeSegment(encoding string, body []byte) ([]byte, bool, error) {
	switch encoding {
	case "br":
		out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	case "gzip":
		gr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, false, err
		}
		out, err := drainClose(gr)
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	case "zstd":
		dec, err := zstd.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, false, err
		}
		out, err := io.ReadAll(dec)
		dec.Close()
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	case "deflate":
		// zlib-wrapped first (RFC 9110), raw DEFLATE as fallback
		if zr, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
			out, err := drainClose(zr)
			if err != nil {
				return nil, false, err
			}
			return out, true, nil
		}
		out, err := drainClose(flate.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	case "compress", "identity", "":
		return body, false, nil
	default:
		return nil, false, fmt.Errorf("unsupported content-encoding: %q", encoding)
	}
}

func drainClose(rc io.ReadCloser) ([]byte, error) {
	out, err := io.ReadAll(rc)
	cerr := rc.Close()
	if err != nil {
		return nil, err
	}
	if cerr != nil {
		return nil, cerr
	}
	return out, nil
}
