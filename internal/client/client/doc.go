// Package client contains the client-side building blocks that talk to the
// café catalog API and bootstrap local persistence.
//
// # Overview
//
//  1. A transport-agnostic API contract (Client, split into AuthAPI and
//     CatalogAPI) covering session validation, login, registration, product
//     CRUD, image upload and category listing.
//  2. A concrete HTTP+JSON implementation (HTTPClient). Its transport reads
//     the session token from a TokenSource on every request and sends it in
//     the x-token header; responses outside 2xx become *APIError. Requests
//     are wrapped by otelhttp and traced when the program installs an
//     OpenTelemetry tracer provider.
//  3. Unverified decoding of the token's JWT claims (ParseTokenClaims).
//  4. Local persistence bootstrap (InitDatabase, RunMigrations): an SQLite
//     database with embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Server rejections are *APIError
// values; 401 and 404 responses also match ErrUnauthorized and ErrNotFound
// with errors.Is.
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context; no timeout is imposed beyond what the caller's context
// carries.
package client
