// Package hook implements the webhook endpoint that drives automated
// redeployments. Deliveries are authenticated with HMAC-SHA256 over the
// raw body before any of the payload is interpreted.
//
// # Security Model
//
// - HMAC-SHA256 signatures verified with crypto/subtle (constant-time comparison)
// - Authentication strictly precedes JSON parsing
// - Body size capped at 16 KiB
// - Secrets loaded from environment variables (never hardcoded)
// - Request logging excludes payloads
//
// # Request Flow
//
//  1. HTTP POST arrives at /api/ad
//  2. Body read under the size cap (413 if exceeded)
//  3. X-Hub-Signature-256 verified against the shared secret (403 on failure)
//  4. Payload parsed: action, repository.full_name, pull_request.merged (400 on failure)
//  5. action != "closed": 200 "nothing to do"
//  6. merged == false: 200, one skip notification mailed
//  7. Repository resolved to a target tag (400 if not configured)
//  8. 200 acknowledgement returned; playbook run and outcome mail happen
//     on a detached task
//
// # Error Responses
//
// - 403 Forbidden: missing, undecodable, or mismatched signature
// - 400 Bad Request: malformed payload or unconfigured repository
// - 500 Internal Server Error: webhook secret unavailable
// - 413 Payload Too Large: body exceeds the cap
package hook
