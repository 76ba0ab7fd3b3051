// Package models defines server-side data models persisted in the database
// or the challenge store.
package models
