// Package models defines the data model for the festival match service.
//
// Persistent entities (users, sessions, preference rows, suggestions) carry
// unexported fields with accessor methods and satisfy the Model interface so
// repositories can treat them uniformly. Catalog festivals are plain JSON
// records and live in the catalog package instead.
package models
