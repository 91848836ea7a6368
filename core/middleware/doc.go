// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key or Bearer token). Disabled when no
//     key is configured.
//   - rayid: Tags every request with a ray id, taken from the X-Ray-ID header
//     or generated, stored in the ray_id local and echoed in the response.
//   - requestlog: Logs request start, completion and errors with the ray id.
//
// Register rayid first so the other components can log the id.
package middleware
