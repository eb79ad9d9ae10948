package shared

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

// EffectiveLeadTime returns the offer's lead time, or def when the offer has none
func EffectiveLeadTime(offer *entities.SupplierOffer, def int) int {
	if offer.LeadTimeDays <= 0 {
		return def
	}
	return offer.LeadTimeDays
}

// RankSuppliers orders supplier offers for a requested quantity.
//
// Offers whose MOQ does not exceed the quantity come first; within each group
// offers are ordered by lowest price, then shortest lead time, then highest
// on-time-delivery rate. An offer with zero MOQ has no minimum.
func RankSuppliers(offers []*entities.SupplierOffer, quantity decimal.Decimal, defaultLeadTime int) []*entities.SupplierOffer {
	var eligible, fallback []*entities.SupplierOffer
	for _, offer := range offers {
		if offer == nil {
			continue
		}
		if offer.MOQ.LessThanOrEqual(quantity) {
			eligible = append(eligible, offer)
		} else {
			fallback = append(fallback, offer)
		}
	}

	less := func(group []*entities.SupplierOffer) func(i, j int) bool {
		return func(i, j int) bool {
			a, b := group[i], group[j]
			if !a.Price.Equal(b.Price) {
				return a.Price.LessThan(b.Price)
			}
			la, lb := EffectiveLeadTime(a, defaultLeadTime), EffectiveLeadTime(b, defaultLeadTime)
			if la != lb {
				return la < lb
			}
			return a.OnTimeDeliveryRate > b.OnTimeDeliveryRate
		}
	}
	sort.SliceStable(eligible, less(eligible))
	sort.SliceStable(fallback, less(fallback))

	return append(eligible, fallback...)
}

// SelectBestSupplier returns the top-ranked offer, or nil when there are none
func SelectBestSupplier(offers []*entities.SupplierOffer, quantity decimal.Decimal, defaultLeadTime int) *entities.SupplierOffer {
	ranked := RankSuppliers(offers, quantity, defaultLeadTime)
	if len(ranked) == 0 {
		return nil
	}
	return ranked[0]
}
