package menucache

import "strconv"

// Cache key namespace. Every entity owned by a restaurant is keyed under the
// "restaurant:{id}" prefix; list-level aggregates live under "restaurants:list".
const (
	keyListAll                  = "restaurants:list:all"
	keyListOpenNow              = "restaurants:list:open_now"
	keyListIncludingUnpublished = "restaurants:list:all_including_unpublished"
	keySuffixProducts           = ":products"
	keySuffixOffers             = ":offers"
	keySuffixBusinessHours      = ":business_hours"
)

func restaurantKey(id int64) string {
	return "restaurant:" + strconv.FormatInt(id, 10)
}

func productsKey(id int64) string {
	return restaurantKey(id) + keySuffixProducts
}

func offersKey(id int64) string {
	return restaurantKey(id) + keySuffixOffers
}

func businessHoursKey(id int64) string {
	return restaurantKey(id) + keySuffixBusinessHours
}

// listKeys returns every list-level aggregate key. Updating a single
// restaurant invalidates all of them because each list embeds the record.
func listKeys() []string {
	return []string{keyListAll, keyListOpenNow, keyListIncludingUnpublished}
}
