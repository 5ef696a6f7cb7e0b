package cache

// PrefixKey namespaces a key per store.
func PrefixKey(storeID, key string) string {
	if storeID == "" {
		return key
	}
	return storeID + ":" + key
}

// KeyCartSnapshot returns the key holding the last cart snapshot of a user in a store.
func KeyCartSnapshot(storeID, userID string) string {
	return PrefixKey(storeID, "cart:snapshot:"+userID)
}

// KeyCustomerExistence returns the key holding the cached customer lookup of a user in a store.
func KeyCustomerExistence(storeID, userID string) string {
	return PrefixKey(storeID, "customer:existence:"+userID)
}

// KeyCartLock returns the key serialising reconciliation passes of a user in a store.
func KeyCartLock(storeID, userID string) string {
	return PrefixKey(storeID, "cart:lock:"+userID)
}
