package inventory

import (
	"sort"

	inventoryEntity "wholesale.GO/model/entity/inventory"
)

// Allocation is one row's share of a greedy spread.
type Allocation struct {
	Record *inventoryEntity.StockRecord
	Take   int64
}

// Allocate spreads need across records greedily: records are visited in
// the order given by less, and each contributes min(remaining, capacity).
// Returns the per-row allocations and the unsatisfied remainder. Lock,
// unlock and the pick list generator share this routine and differ only
// in ordering and capacity.
func Allocate(
	records []inventoryEntity.StockRecord,
	need int64,
	capacity func(*inventoryEntity.StockRecord) int64,
	less func(a, b *inventoryEntity.StockRecord) bool,
) ([]Allocation, int64) {
	ordered := make([]*inventoryEntity.StockRecord, len(records))
	for i := range records {
		ordered[i] = &records[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return less(ordered[i], ordered[j])
	})

	var allocs []Allocation
	remaining := need
	for _, rec := range ordered {
		if remaining <= 0 {
			break
		}
		room := capacity(rec)
		if room <= 0 {
			continue
		}
		take := remaining
		if room < take {
			take = room
		}
		allocs = append(allocs, Allocation{Record: rec, Take: take})
		remaining -= take
	}
	return allocs, remaining
}

// byOnHandDesc orders rows by descending on-hand quantity (lock policy:
// largest rows first minimizes lock fragmentation).
func byOnHandDesc(a, b *inventoryEntity.StockRecord) bool {
	if a.OnHandQty != b.OnHandQty {
		return a.OnHandQty > b.OnHandQty
	}
	return a.ID < b.ID
}

// byLockedDesc orders rows by descending locked quantity (unlock and
// fulfillment policy: release the heaviest locks first).
func byLockedDesc(a, b *inventoryEntity.StockRecord) bool {
	if a.LockedQty != b.LockedQty {
		return a.LockedQty > b.LockedQty
	}
	return a.ID < b.ID
}

// ByBinCodeAsc orders rows by ascending bin code with unplaced (no bin)
// rows last. Pick list policy: walking order.
func ByBinCodeAsc(binCodes map[uint]string) func(a, b *inventoryEntity.StockRecord) bool {
	key := func(r *inventoryEntity.StockRecord) (string, bool) {
		if r.BinLocationID == nil {
			return "", false
		}
		return binCodes[*r.BinLocationID], true
	}
	return func(a, b *inventoryEntity.StockRecord) bool {
		ak, aPlaced := key(a)
		bk, bPlaced := key(b)
		if aPlaced != bPlaced {
			return aPlaced
		}
		if ak != bk {
			return ak < bk
		}
		return a.ID < b.ID
	}
}
