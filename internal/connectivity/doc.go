// Package connectivity tracks whether the device is online.
//
// Monitor holds a single online flag fed by the host's network-change events
// (SetOnline) or by Run, which polls a Prober. Going offline emits one
// "No Internet Connection" notification per transition. Monitor never retries
// anything itself; it only gates the request dispatcher.
package connectivity
