// Package models defines the content entities: modules, sets and questions.
// Module and set codes are globally unique; questions reference both by
// denormalized code rather than enforced foreign keys.
package models
