package graphqlserver

import (
	"context"
	"encoding/json"
	"time"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"wholesale.GO/core/errs"
	"wholesale.GO/graphql"
	gqlmodels "wholesale.GO/graphql/models"
	"wholesale.GO/graphql/registry"
	catalogEntity "wholesale.GO/model/entity/catalog"
	inventoryEntity "wholesale.GO/model/entity/inventory"
	salesEntity "wholesale.GO/model/entity/sales"
	inventoryRepo "wholesale.GO/model/repository/inventory"
	catalogService "wholesale.GO/service/catalog"
	inventoryService "wholesale.GO/service/inventory"
	salesService "wholesale.GO/service/sales"
)

// RootResolver is the root for graphql-go. Tenant context comes from the
// X-Tenant-ID header via middleware.
type RootResolver struct {
	DB *gorm.DB
}

// Query returns the query resolver.
func (r *RootResolver) Query() *QueryResolver {
	return &QueryResolver{db: r.DB}
}

// QueryResolver implements Query fields. Delegates to the service layer.
type QueryResolver struct {
	db *gorm.DB
}

func (r *QueryResolver) tenant(ctx context.Context) (uint, error) {
	tenantID := graphql.TenantIDFromContext(ctx)
	if tenantID == 0 {
		return 0, errs.Validation("missing %s header", graphql.HeaderTenantID)
	}
	return tenantID, nil
}

// StockSummaryArgs matches the stockSummary query arguments.
type StockSummaryArgs struct {
	SkuID int32
}

func (r *QueryResolver) StockSummary(ctx context.Context, args StockSummaryArgs) (*gqlmodels.StockSummary, error) {
	tenantID, err := r.tenant(ctx)
	if err != nil {
		return nil, err
	}
	sum, err := inventoryService.NewEngine(r.db).Summary(tenantID, uint(args.SkuID))
	if err != nil {
		return nil, err
	}
	return &gqlmodels.StockSummary{
		SkuID:     args.SkuID,
		OnHand:    int32(sum.OnHand),
		Locked:    int32(sum.Locked),
		Available: int32(sum.Available),
	}, nil
}

func (r *QueryResolver) StockRecords(ctx context.Context, args StockSummaryArgs) ([]*gqlmodels.StockRecord, error) {
	tenantID, err := r.tenant(ctx)
	if err != nil {
		return nil, err
	}
	rows, _, err := inventoryService.NewEngine(r.db).StockBreakdown(tenantID, uint(args.SkuID))
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.StockRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, flatToStockRecord(row))
	}
	return out, nil
}

// LedgerArgs matches the ledger query arguments (defaults in schema: pageSize=20, currentPage=1).
type LedgerArgs struct {
	SkuID       *int32
	WarehouseID *int32
	Type        *string
	PageSize    int32
	CurrentPage int32
}

func (r *QueryResolver) Ledger(ctx context.Context, args LedgerArgs) (*gqlmodels.LedgerResult, error) {
	tenantID, err := r.tenant(ctx)
	if err != nil {
		return nil, err
	}
	filter := inventoryRepo.LedgerFilter{
		Page:     int(args.CurrentPage),
		PageSize: int(args.PageSize),
	}
	if args.SkuID != nil {
		filter.SkuID = uint(*args.SkuID)
	}
	if args.WarehouseID != nil {
		filter.WarehouseID = uint(*args.WarehouseID)
	}
	if args.Type != nil {
		filter.Type = *args.Type
	}
	entries, total, err := inventoryRepo.NewLedgerRepository(r.db).Query(tenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, flatToLedgerEntry(entry))
	}
	return &gqlmodels.LedgerResult{Entries: out, Total: int32(total)}, nil
}

// OrderArgs matches the order query arguments.
type OrderArgs struct {
	ID int32
}

func (r *QueryResolver) Order(ctx context.Context, args OrderArgs) (*gqlmodels.SalesOrder, error) {
	tenantID, err := r.tenant(ctx)
	if err != nil {
		return nil, err
	}
	order, err := salesService.NewOrderService(r.db).GetByID(tenantID, uint(args.ID))
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	return flatToOrder(order), nil
}

// SearchSkusArgs matches the searchSkus query arguments (default in schema: limit=20).
type SearchSkusArgs struct {
	Query string
	Limit int32
}

func (r *QueryResolver) SearchSkus(ctx context.Context, args SearchSkusArgs) ([]*gqlmodels.Sku, error) {
	tenantID, err := r.tenant(ctx)
	if err != nil {
		return nil, err
	}
	skus, err := catalogService.GetSearchService().Search(ctx, r.db, tenantID, args.Query, int(args.Limit))
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.Sku, 0, len(skus))
	for _, sku := range skus {
		out = append(out, flatToSku(sku))
	}
	return out, nil
}

// ExtensionArgs for _extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	var m map[string]interface{}
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	if m == nil {
		m = make(map[string]interface{})
	}
	out, err := registry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func flatToStockRecord(row inventoryEntity.StockRecord) *gqlmodels.StockRecord {
	out := &gqlmodels.StockRecord{
		WarehouseID: int32(row.WarehouseID),
		OnHand:      int32(row.OnHandQty),
		Locked:      int32(row.LockedQty),
		Available:   int32(row.AvailableQty()),
	}
	if row.BinLocationID != nil {
		binID := int32(*row.BinLocationID)
		out.BinLocationID = &binID
	}
	return out
}

func flatToLedgerEntry(entry inventoryEntity.LedgerEntry) *gqlmodels.LedgerEntry {
	return &gqlmodels.LedgerEntry{
		EventID:       entry.EventID.String(),
		SkuID:         int32(entry.SkuID),
		WarehouseID:   int32(entry.WarehouseID),
		Type:          entry.Type,
		Quantity:      int32(entry.Quantity),
		ReferenceType: entry.ReferenceType,
		ReferenceID:   entry.ReferenceID,
		Notes:         entry.Notes,
		CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
	}
}

func flatToSku(sku catalogEntity.SKU) *gqlmodels.Sku {
	return &gqlmodels.Sku{
		ID:             int32(sku.ID),
		Code:           sku.Code,
		Name:           sku.Name,
		Color:          sku.Color,
		Material:       sku.Material,
		Barcode:        sku.Barcode,
		WholesalePrice: sku.WholesalePrice.String(),
		Status:         sku.Status,
	}
}

func flatToOrder(order *salesEntity.SalesOrder) *gqlmodels.SalesOrder {
	items := make([]*gqlmodels.SalesOrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, &gqlmodels.SalesOrderItem{
			SkuID:     int32(item.SkuID),
			Quantity:  int32(item.Quantity),
			UnitPrice: item.UnitPrice.String(),
			PickedQty: int32(item.PickedQty),
		})
	}
	out := &gqlmodels.SalesOrder{
		ID:          int32(order.ID),
		OrderNumber: order.OrderNumber,
		CustomerID:  int32(order.CustomerID),
		WarehouseID: int32(order.WarehouseID),
		Status:      order.Status,
		TotalAmount: order.TotalAmount.String(),
		Currency:    order.Currency,
		Items:       items,
	}
	if order.ShippedAt != nil {
		shipped := order.ShippedAt.Format(time.RFC3339)
		out.ShippedAt = &shipped
	}
	return out
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{DB: db}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
