package cache

import (
	"fmt"
	"net/url"
)

// PropertyListNamespace prefixes every listing-query cache key so the whole
// family can be invalidated in one call.
const PropertyListNamespace = "properties:"

// cache key for a specific property.
func PropertyKey(id string) string {
	return fmt.Sprintf("property:%s", id)
}

// cache key for one page of a filtered listing query. Every filter
// dimension participates and is escaped before joining, so distinct
// filter tuples never collide even when a caller-supplied value contains
// the delimiter or a label sequence.
func PropertyListKey(propertyType, city, minPrice, maxPrice, status, ownerID string, page, limit int) string {
	return fmt.Sprintf("%stype:%s:city:%s:min:%s:max:%s:status:%s:owner:%s:page:%d:limit:%d",
		PropertyListNamespace,
		url.QueryEscape(propertyType), url.QueryEscape(city),
		url.QueryEscape(minPrice), url.QueryEscape(maxPrice),
		url.QueryEscape(status), url.QueryEscape(ownerID),
		page, limit)
}

// key for the ownership-authorization cache entry of a resource. The auth
// layer populates these; the coordinator only invalidates them on writes.
func OwnershipKey(resourceType, id string) string {
	return fmt.Sprintf("ownership:%s:%s", resourceType, id)
}
