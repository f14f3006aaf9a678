// Caching of account profile snapshots (as JSON strings) with a fixed TTL.
//
// Includes an interface and implementations using redis and in-process
// memory. The engine uses this to avoid re-fetching profiles which appear in
// many analyses, reducing load on the upstream platform API; there is no
// freshness guarantee beyond the TTL.
package cachestore
