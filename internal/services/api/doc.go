// Package api hosts the reference projects backend: a JSON REST API over
// projects and their tasks, stored in Neo4j when configured and SQLite
// otherwise.
package api
