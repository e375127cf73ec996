package types

// RequestOptions tune how a single call is encoded and reported.
type RequestOptions struct {
	ShowLoader         bool   // hold the shared busy flag for the call
	ShowErrorMessage   bool   // surface error toasts
	ShowSuccessMessage bool   // surface success toasts on 200
	IsFileUpload       bool   // encode the body as multipart/form-data
	ContentType        string // overrides application/json for plain bodies
}

// Request is one logical API call. It carries no identity beyond the call.
type Request struct {
	Payload  map[string]any
	Endpoint string
	Method   string
	Options  RequestOptions
}

// File is a payload value sent as a file part in multipart uploads.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}
