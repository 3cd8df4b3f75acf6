package domain

// CheckStock verifies every cart line against its product snapshot: the
// product must be purchasable, and when it tracks quantity the available
// stock must cover the requested amount. The first violation aborts the whole
// check; no partial result is returned.
func CheckStock(lines []CartLine, snapshots map[string]ProductSnapshot) error {
	for _, line := range lines {
		snap, ok := snapshots[line.ProductID]
		if !ok {
			return ErrNotFound
		}
		if !snap.IsPurchasable {
			return &ProductUnavailableError{ProductID: snap.ProductID, Name: snap.Name}
		}
		if snap.TracksQuantity && snap.AvailableQuantity < line.Quantity {
			return &StockError{
				ProductID: snap.ProductID,
				Name:      snap.Name,
				Requested: line.Quantity,
				Available: snap.AvailableQuantity,
			}
		}
	}
	return nil
}
