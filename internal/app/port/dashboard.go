package port

import "yolodash/internal/domain/entity"

// Dashboard is the set of user actions and state reads offered to front-ends.
type Dashboard interface {
	Connect()
	Disconnect()
	SelectSection(section entity.Section) error
	RefreshPrice()
	RefreshBatchPrices()
	RefreshAll()
	Snapshot() entity.Snapshot
	Subscribe() (<-chan entity.Snapshot, func())
}
