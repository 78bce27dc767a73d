// Package aemsearch provides content discovery over a hierarchical content
// repository. Given a loosely specified search term and a base path it
// resolves the locale and country subtrees of a site, runs a chain of
// progressively relaxed matching strategies, and returns ranked matches with
// a report of what was tried.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their concern or primary dependency (e.g., search/, http/, sqlite/).
package aemsearch
