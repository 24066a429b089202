package realtime

import (
	"context"
	"strconv"
)

// ConditionalStore is the capability interface over the remote realtime
// store. Besides plain JSON writes it must provide an atomic conditional
// update, which is the only cross-process concurrency-control mechanism in
// the core: competing drivers run on separate devices with no shared memory,
// so exclusivity has to come from the store, not from a local lock.
//
// Two adapters ship with the package: RESTStore (ETag-guarded writes against
// a Firebase-style JSON tree) and MongoStore (FindOneAndUpdate). Both are
// linearizable for CompareAndSwap.
type ConditionalStore interface {
	// Put replaces the JSON value at path.
	Put(ctx context.Context, path string, value any) error

	// Patch merges fields into the JSON object at path.
	Patch(ctx context.Context, path string, fields map[string]any) error

	// Delete removes the value at path. Deleting an absent path is not an error.
	Delete(ctx context.Context, path string) error

	// CompareAndSwap atomically sets field at path to next if its current
	// value is one of expect or the field is absent. It reports whether this
	// call's update committed. A false result with nil error means another
	// writer got there first.
	CompareAndSwap(ctx context.Context, path, field string, expect []string, next string) (bool, error)
}

// OrderPath is the projection path for an order, scoped by restaurant and
// order number: orders/{website_id}/{order_number}.
func OrderPath(websiteID int64, orderNumber string) string {
	return "orders/" + strconv.FormatInt(websiteID, 10) + "/" + orderNumber
}

// DeliveryPath is the projection path for a delivery-dispatch request:
// orders_delivery/{website_id}/{id}.
func DeliveryPath(websiteID int64, id string) string {
	return "orders_delivery/" + strconv.FormatInt(websiteID, 10) + "/" + id
}
