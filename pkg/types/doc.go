// Package types defines the entity types, configuration, and standard
// errors for the luftbuch record store: ventilation entries, apartments
// with their room definitions, deletion-log tombstones, backups, and
// the key-value metadata store.
package types
