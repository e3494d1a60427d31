package models

// GraphQL output models. Quantities are int32 to match the schema's Int;
// callers clamp from the engine's int64 domain values.

type StockSummary struct {
	SkuID     int32
	OnHand    int32
	Locked    int32
	Available int32
}

type StockRecord struct {
	WarehouseID   int32
	BinLocationID *int32
	OnHand        int32
	Locked        int32
	Available     int32
}

type LedgerEntry struct {
	EventID       string
	SkuID         int32
	WarehouseID   int32
	Type          string
	Quantity      int32
	ReferenceType string
	ReferenceID   string
	Notes         string
	CreatedAt     string
}

type LedgerResult struct {
	Entries []*LedgerEntry
	Total   int32
}

type Sku struct {
	ID             int32
	Code           string
	Name           string
	Color          string
	Material       string
	Barcode        string
	WholesalePrice string
	Status         string
}

type SalesOrderItem struct {
	SkuID     int32
	Quantity  int32
	UnitPrice string
	PickedQty int32
}

type SalesOrder struct {
	ID          int32
	OrderNumber string
	CustomerID  int32
	WarehouseID int32
	Status      string
	TotalAmount string
	Currency    string
	ShippedAt   *string
	Items       []*SalesOrderItem
}
