package jobs

import (
	"log"

	"wholesale.GO/config"
	inventoryService "wholesale.GO/service/inventory"
)

func init() {
	config.RegisterCronJob("ledgerreconcile", "0 3 * * *", LedgerReconcileJob)
}

// LedgerReconcileJob sweeps every tenant and logs each (sku, warehouse)
// where the ledger's net physical movements disagree with the stock
// records. Log-only: the ledger is the audit trail, never rewritten.
func LedgerReconcileJob(args ...string) {
	db, err := config.NewDB()
	if err != nil {
		log.Printf("ledger reconcile: database connection failed: %v", err)
		return
	}

	tenants, err := inventoryService.TenantIDs(db)
	if err != nil {
		log.Printf("ledger reconcile: listing tenants failed: %v", err)
		return
	}

	total := 0
	for _, tenantID := range tenants {
		discrepancies, err := inventoryService.Reconcile(db, tenantID)
		if err != nil {
			log.Printf("ledger reconcile: tenant %d failed: %v", tenantID, err)
			continue
		}
		for _, d := range discrepancies {
			log.Printf("ledger reconcile: tenant=%d sku=%d warehouse=%d ledger_net=%d stock_on_hand=%d",
				d.TenantID, d.SkuID, d.WarehouseID, d.LedgerNet, d.StockOnHand)
		}
		total += len(discrepancies)
	}
	log.Printf("ledger reconcile: %d tenants checked, %d discrepancies", len(tenants), total)
}
