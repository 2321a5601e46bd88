// Package client talks to the gophfeed server.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): signup,
//     login, status, the post feed and the realtime post socket.
//  2. A REST implementation (see HTTPClient) that attaches the bearer token,
//     encodes post bodies as multipart/form-data and decodes the server's
//     error envelope into *APIError.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable and 401 responses match
// ErrUnauthorized; both work with errors.Is. Any other non-2xx response is an
// *APIError carrying the server message and field errors.
package client
