// Package engine serves genpare's salary queries.
//
// A request flows through four stages, all of them synchronous:
//
//  1. Decode: the body is checked against the request envelope and every
//     filter and result transformer descriptor is resolved through its
//     registry. Any failure rejects the whole request before the store is
//     touched.
//  2. Compile: the filters are combined into one conjunctive predicate,
//     evaluated against a single reference time taken from the Clock.
//  3. Fetch: the predicate runs against the member ⋈ salary view inside one
//     read transaction of the store, and each record is projected to an
//     IntermediateResult (age in whole years instead of birthdate).
//  4. Transform: each requested transformer runs over the same row
//     snapshot, in request order, producing one result each.
//
// The engine keeps no state between requests. It never retries and has no
// timeouts of its own; cancellation of ctx is passed to the store.
package engine
