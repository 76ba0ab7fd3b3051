// Package client contains the client-side transport to the resumeai backend
// and the local database bootstrap.
//
// # Overview
//
// The package provides:
//  1. The Client interface: challenge request and verify, text and PDF
//     analysis, user and analysis lookups, and a health Ping.
//  2. HTTPClient, a JSON-over-HTTP implementation that sends the session's
//     access token as a bearer token and maps non-success responses onto the
//     sentinel and structured errors in package common.
//  3. A gRPC health probe used by Ping when a health address is configured.
//  4. InitDatabase and RunMigrations, which open the local SQLite database
//     and apply the embedded goose migrations.
//
// # Error Handling
//
// Callers match failures with errors.Is against common.ErrTransport,
// common.ErrTimeout, common.ErrUnauthorized, common.ErrNotFound,
// common.ErrInvalidOrExpiredChallenge and common.ErrQuotaExceeded, or use
// errors.As for *common.QuotaError and *common.SubmissionError to read the
// backend's detail. Analysis submissions fail only with a server QuotaError
// or a SubmissionError, whatever the status. A cancelled context is returned
// as context.Canceled.
//
// HTTPClient is safe for concurrent use.
package client
