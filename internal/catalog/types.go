package catalog

// Response is one page of the commerce platform's variants listing.
type Response struct {
	Variants []Variant `json:"variants"`
	Meta     struct {
		NextCursor *string `json:"next_cursor"`
	} `json:"meta"`
}

// Variant is a sellable item as the platform reports it. Prices arrive as
// strings ("12.50") and may be null.
type Variant struct {
	ID                string      `json:"id"`
	ProductID         string      `json:"product_id"`
	InventoryItemID   string      `json:"inventory_item_id"`
	SKU               string      `json:"sku"`
	Barcode           string      `json:"barcode"`
	Title             string      `json:"title"`
	Vendor            string      `json:"vendor"`
	Price             *string     `json:"price"`
	CompareAtPrice    *string     `json:"compare_at_price"`
	InventoryQuantity *int        `json:"inventory_quantity"`
	Tags              string      `json:"tags"` // comma separated
	HistoricalSales   *int        `json:"historical_sales"`
	LastOrderDate     *string     `json:"last_order_date"`
	Metafields        []Metafield `json:"metafields"`
}

// Metafield is a namespaced custom attribute.
type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}
