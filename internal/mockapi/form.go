package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
)

const (
	formKey ctxKey = iota + 100

	maxUpload = 10 << 20
)

// form is a flattened view of query, JSON or multipart input.
type form struct {
	values map[string]string
	files  map[string]*multipart.FileHeader
}

func (f form) get(key string) string { return f.values[key] }

func formFrom(r *http.Request) form {
	f, _ := r.Context().Value(formKey).(form)
	return f
}

// readForm decodes the request by content type. GET calls use the query.
func readForm(r *http.Request) (form, error) {
	f := form{values: map[string]string{}, files: map[string]*multipart.FileHeader{}}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			f.values[k] = v[0]
		}
	}
	if r.Method == http.MethodGet || r.Method == http.MethodHead || r.ContentLength == 0 {
		return f, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			return f, fmt.Errorf("invalid multipart body: %w", err)
		}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				f.values[k] = v[0]
			}
		}
		for k, v := range r.MultipartForm.File {
			if len(v) > 0 {
				f.files[k] = v[0]
			}
		}
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		dec := json.NewDecoder(io.LimitReader(r.Body, maxUpload))
		dec.UseNumber()
		var body map[string]any
		if err := dec.Decode(&body); err != nil {
			return f, errors.New("invalid JSON body")
		}
		for k, v := range body {
			if v != nil {
				f.values[k] = fmt.Sprint(v)
			}
		}
	default:
		return f, fmt.Errorf("unsupported content type %q", mediaType)
	}
	return f, nil
}

// writeEnvelope writes the standard response body.
func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
	})
}
