package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wholesale.GO/config"
	inventoryService "wholesale.GO/service/inventory"
)

var (
	adjustTenant    uint
	adjustSku       uint
	adjustWarehouse uint
	adjustBin       uint
	adjustDelta     int64
	adjustOperator  uint
	adjustNotes     string
)

var stockAdjustCmd = &cobra.Command{
	Use:   "stock:adjust",
	Short: "Apply a manual stock adjustment with a ledger entry",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}

		op := inventoryService.StockOp{
			TenantID:      adjustTenant,
			OperatorID:    adjustOperator,
			SkuID:         adjustSku,
			WarehouseID:   adjustWarehouse,
			Quantity:      adjustDelta,
			ReferenceType: "CLI",
			Notes:         adjustNotes,
		}
		if adjustBin != 0 {
			bin := adjustBin
			op.BinLocationID = &bin
		}

		sum, err := inventoryService.NewEngine(db).Adjust(op)
		if err != nil {
			fmt.Printf("Adjustment failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Adjusted sku %d: on-hand=%d locked=%d available=%d\n",
			adjustSku, sum.OnHand, sum.Locked, sum.Available)
	},
}

func init() {
	stockAdjustCmd.Flags().UintVar(&adjustTenant, "tenant", 0, "Tenant id")
	stockAdjustCmd.Flags().UintVar(&adjustSku, "sku", 0, "SKU id")
	stockAdjustCmd.Flags().UintVar(&adjustWarehouse, "warehouse", 0, "Warehouse id")
	stockAdjustCmd.Flags().UintVar(&adjustBin, "bin", 0, "Bin location id (0 for unplaced stock)")
	stockAdjustCmd.Flags().Int64Var(&adjustDelta, "delta", 0, "Signed quantity delta")
	stockAdjustCmd.Flags().UintVar(&adjustOperator, "operator", 0, "Operator id")
	stockAdjustCmd.Flags().StringVar(&adjustNotes, "notes", "", "Audit notes")
	_ = stockAdjustCmd.MarkFlagRequired("tenant")
	_ = stockAdjustCmd.MarkFlagRequired("sku")
	_ = stockAdjustCmd.MarkFlagRequired("warehouse")
	_ = stockAdjustCmd.MarkFlagRequired("delta")
	rootCmd.AddCommand(stockAdjustCmd)
}
