// Package web owns the browser-facing project and task pages.
//
// It composes page modules behind shared middleware, serves static assets,
// and reads through the query cache to the projects backend API.
package web
