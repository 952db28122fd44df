// Package osmx parses OpenStreetMap XML exports into an in-memory
// map model of nodes, ways and relations. Way node references are
// resolved into coordinate sequences after parsing, see
// parser/osmxml. The osmx command wraps the parser with a disk
// cache and a PostgreSQL export.
package osmx

const Version = "0.1.0"
