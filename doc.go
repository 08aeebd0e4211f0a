// Package backend is the LocalFeat API server: an anonymous-friendly local feed where posts
// are visible only within a small radius of where they were made and expire after 24 hours.
//
// The code is organized into subpackages:
//
//   - cmd/server: HTTP server entry point
//   - cmd/localfeat: admin CLI (migrate, sweep, bot seeding)
//   - internal/feed: geofenced feed assembly and ranking
//   - internal/geo: haversine distance and bounding boxes
//   - internal/repository: GORM persistence for every entity
//   - internal/handlers: HTTP handlers for all /api endpoints
//   - internal/auth: passwords, sessions, reset tokens and Google sign-in
//   - internal/validation: content filter applied to user text
//   - internal/sweeper: expiry cleanup of posts, sessions and reset tokens
//   - internal/activitybot, internal/seed: synthetic activity and bulk bot accounts
//   - internal/storage, internal/email: S3 profile images and SES mail
//   - internal/middleware, internal/metrics, internal/telemetry, internal/logger: request plumbing and observability
//   - internal/container: dependency wiring shared by the server and the CLI
package backend
