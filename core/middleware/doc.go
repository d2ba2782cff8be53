// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting the synchronization endpoints.
//   - rayid: assigns every request a Request ID (RayID), stored in the context and
//     echoed in the response headers for tracing.
//
// Register rayid first so every later log line can carry the RayID.
package middleware
