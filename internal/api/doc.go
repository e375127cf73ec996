// Package api is the single authenticated entry point to the backend.
//
// Dispatcher.Send turns a logical domain.Request into one HTTP call:
//
//   - GET payloads travel in the query string; other methods send a JSON
//     body, or multipart/form-data when IsFileUpload is set.
//   - Every call carries device_id and timestamp.
//   - Authorization is snapshotted from the session store when the request is
//     built, so a concurrent logout never alters an in-flight call.
//   - Calls are bounded by a timeout (DefaultTimeout unless configured) and
//     never retried.
//
// Classifier maps the HTTP status and body to a domain.Outcome and emits the
// matching notifications. A 401 always expires the session through the bound
// domain.SessionExpirer, whatever the caller's toast preferences.
//
// Connectivity and timeout failures are returned as errors
// (ErrNetworkUnavailable, ErrTimeout); business failures come back as
// outcomes whose payload callers inspect.
package api
