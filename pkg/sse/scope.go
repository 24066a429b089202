package sse

import "fmt"

// Scope identifies one broadcast audience. Admin streams are keyed by
// restaurant, customer streams by order; the two key spaces never overlap.
type Scope string

// AdminScope is the audience of a restaurant's admin dashboard: every order
// event for that restaurant.
func AdminScope(websiteID int64) Scope {
	return Scope(fmt.Sprintf("admin:%d", websiteID))
}

// OrderScope is the audience of a single customer tracking one order.
func OrderScope(orderID int64) Scope {
	return Scope(fmt.Sprintf("order:%d", orderID))
}
