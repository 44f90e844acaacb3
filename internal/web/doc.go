// Package web renders snapshots outside the terminal: a plain text report,
// an HTML fragment, JSON, and the HTTP responder started by 'glspy serve'.
//
// Every request collects its own snapshot, so the responder holds no state
// between requests besides the collector's previous-snapshot carry-over.
//
// Routes:
//
//	GET /                 redirect to /spy
//	GET /spy              sessions and totals
//	GET /users            sessions with identity columns
//	GET /totals           totals only
//	GET /html             bare HTML fragment
//	GET /users.json       sessions and totals as JSON
//	GET /user/{name}      userfile summary (404 unknown user, 500 unreadable)
//	GET /kick/{name}      terminate the user's session (200, 404, 500)
//
// The page routes take 'sort' (one of snapshot.SortKeys) and 'rev' query
// parameters.
package web
