// Package lookup provides the site-side collaborators of the statistics
// engine and the renderers: group names, file sizes, userfiles, GeoIP
// country codes, the daemon version and the configured slot limit.
//
// Every lookup fails soft. Callers get an *errors.Error with code LOOKUP and
// substitute a default value.
package lookup
