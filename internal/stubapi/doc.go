// Package stubapi is an in-memory stand-in for the upstream ticket REST API.
// It speaks the same routes and JSON shapes, issues HS256 tokens carrying
// sub/email/role/exp, and backs the client tests and local development.
package stubapi
