package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"servicepro/internal/domain"
)

// Field names added to every request.
const (
	FieldDeviceID  = "device_id"
	FieldTimestamp = "timestamp"
)

const contentTypeJSON = "application/json"

// build constructs the HTTP request for req. The bearer token is read here and
// nowhere else.
func (d *Dispatcher) build(ctx context.Context, method string, req domain.Request) (*http.Request, error) {
	deviceID, err := d.devices.DeviceID()
	if err != nil {
		return nil, fmt.Errorf("device id: %w", err)
	}
	now := d.now().UnixMilli()

	target, err := d.resolve(req.Endpoint)
	if err != nil {
		return nil, err
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case method == http.MethodGet:
		q := target.Query()
		for k, v := range req.Payload {
			if v == nil {
				continue
			}
			q.Set(k, formValue(v))
		}
		q.Set(FieldDeviceID, deviceID.String())
		q.Set(FieldTimestamp, strconv.FormatInt(now, 10))
		target.RawQuery = q.Encode()
	case req.Options.IsFileUpload:
		body, contentType, err = encodeMultipart(req.Payload, deviceID, now)
	default:
		body, err = encodeJSON(req.Payload, deviceID, now)
		contentType = contentTypeJSON
		if req.Options.ContentType != "" {
			contentType = req.Options.ContentType
		}
	}
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", contentTypeJSON)
	if token, ok := d.tokens.Token(); ok {
		httpReq.Header.Set("Authorization", "Bearer "+token.String())
	}
	return httpReq, nil
}

// resolve joins relative endpoints to the base URL.
func (d *Dispatcher) resolve(endpoint string) (*url.URL, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("endpoint %q: %w", endpoint, err)
	}
	if u.IsAbs() {
		return u, nil
	}
	if d.base == "" {
		return nil, fmt.Errorf("endpoint %q is relative and no base URL is configured", endpoint)
	}
	return url.Parse(d.base + "/" + strings.TrimPrefix(endpoint, "/"))
}

func encodeJSON(payload map[string]any, deviceID domain.DeviceID, now int64) (io.Reader, error) {
	merged := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		merged[k] = v
	}
	merged[FieldDeviceID] = deviceID.String()
	merged[FieldTimestamp] = now

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(merged); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return buf, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipart(payload map[string]any, deviceID domain.DeviceID, now int64) (io.Reader, string, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		var err error
		switch v := payload[k].(type) {
		case nil:
			continue
		case domain.File:
			err = writeFilePart(mw, k, v)
		case *domain.File:
			if v == nil {
				continue
			}
			err = writeFilePart(mw, k, *v)
		default:
			err = mw.WriteField(k, formValue(v))
		}
		if err != nil {
			return nil, "", fmt.Errorf("multipart field %q: %w", k, err)
		}
	}
	if err := mw.WriteField(FieldDeviceID, deviceID.String()); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField(FieldTimestamp, strconv.FormatInt(now, 10)); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}

func writeFilePart(mw *multipart.Writer, field string, f domain.File) error {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", ct)
	w, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = w.Write(f.Content)
	return err
}

// formValue renders a payload value for query strings and form fields.
func formValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(x)
	case domain.File:
		return x.Name
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
