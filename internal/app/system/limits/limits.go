// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxFormSize is the maximum size for ordinary form submissions
	// (team, project, ticket, and comment forms).
	MaxFormSize = 1 << 20 // 1 MB

	// MaxUploadFormSize is the maximum size for multipart ticket file
	// uploads, including a small allowance for the non-file fields.
	MaxUploadFormSize = 11 << 20 // 11 MB
)
