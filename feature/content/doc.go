// Package content implements the module/set/question hierarchy: the keyed
// store over the three collections, CRUD semantics (including the Conflict
// rules for deleting modules with sets and sets with questions), cached
// question counts, substring search and the browse catalog cache.
package content
