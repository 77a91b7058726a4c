package order_changes

const channelPrefix = "orders:tenant="

// Channel канал pub/sub изменений заказов тенанта.
func Channel(tenantID string) string {
	return channelPrefix + tenantID
}
