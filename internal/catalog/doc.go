// Package catalog is the HTTP client for the book catalog REST API.
//
// Client covers authors, books, genres and publishers. Every request carries
// an X-Request-ID header and is logged at debug level with its status and
// duration. Non-2xx replies become *APIError values carrying the status code
// and the server's detail message; transport failures are wrapped in
// *TransportError so callers can tell an unreachable server apart from a
// rejected request.
//
// The API interface lists the calls state.Store makes, and catalogtest.Fake
// implements it in memory for tests.
package catalog
