// Package menucache implements the cache-aside read layer for restaurant,
// menu, offer and business-hours data.
//
// Every getter follows the same protocol: try the cache by the entity's
// namespaced key, deserialize on a hit, otherwise query the relational
// source-of-truth, populate the cache with the entity-specific TTL and
// return. The cache is never a dependency for correctness - a store error is
// logged and the read degrades to a direct source query.
//
// Invalidation removes the exact key set owned by an entity plus any
// list-level aggregates that embed it, and never raises: a missed
// invalidation means stale data until TTL, not incorrect behavior.
//
// Two Store backends ship with the package: RedisStore for shared
// deployments and MemoryStore (ttlcache) for single-instance setups and
// tests. TTL classes are tunable through Config.
package menucache
