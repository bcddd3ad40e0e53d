// Package generation defines the boundary to the generative AI endpoint:
// the Invoker interface, the request/result types it exchanges, and the
// error taxonomy callers branch on. Implementations live under
// internal/platform.
package generation
