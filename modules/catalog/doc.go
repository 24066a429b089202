// Package catalog serves the public restaurant catalog from the cache-aside
// read layer: restaurant profiles, product menus, currently valid offers,
// business hours, and the restaurant listings.
package catalog
