// Package bind decodes an HTTP request body into validate.Values.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/devburger/config"
	"github.com/shashiranjanraj/devburger/pkg/validate"
)

// ErrMalformed wraps any body that cannot be decoded.
var ErrMalformed = errors.New("bind: malformed body")

// maxBodyBytes returns the configured request body size limit (default 4 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "4194304"), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20 // 4 MB
	}
	return n
}

// Values reads r.Body as a JSON object, a multipart form or a urlencoded
// form. Multipart files are stored under their field name as
// *multipart.FileHeader. The body is capped at MAX_BODY_BYTES.
func Values(w http.ResponseWriter, r *http.Request) (validate.Values, error) {
	limit := maxBodyBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		return multipartValues(r, limit)
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, wrap(err)
		}
		out := validate.Values{}
		for key, vals := range r.PostForm {
			if len(vals) > 0 {
				out[key] = vals[0]
			}
		}
		return out, nil
	default:
		return jsonValues(r)
	}
}

func jsonValues(r *http.Request) (validate.Values, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	out := validate.Values{}
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return validate.Values{}, nil
		}
		return nil, wrap(err)
	}
	if out == nil {
		out = validate.Values{}
	}
	return normalize(out), nil
}

func multipartValues(r *http.Request, limit int64) (validate.Values, error) {
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, wrap(err)
	}

	out := validate.Values{}
	for key, vals := range r.MultipartForm.Value {
		if len(vals) > 0 {
			out[key] = vals[0]
		}
	}
	for key, files := range r.MultipartForm.File {
		if len(files) > 0 {
			out[key] = files[0]
		}
	}
	return out, nil
}

// normalize turns nested JSON objects into validate.Values so accessors work
// at every depth.
func normalize(v validate.Values) validate.Values {
	for key, raw := range v {
		v[key] = normalizeAny(raw)
	}
	return v
}

func normalizeAny(raw any) any {
	switch t := raw.(type) {
	case map[string]any:
		return normalize(validate.Values(t))
	case []any:
		for i := range t {
			t[i] = normalizeAny(t[i])
		}
		return t
	}
	return raw
}

func wrap(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: request body too large (max %d bytes)", ErrMalformed, maxErr.Limit)
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}
