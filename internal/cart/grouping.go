package cart

import "github.com/danielnero-bot/potential-goggles/internal/domain"

// GroupByRestaurant partitions line items by restaurant id, preserving the
// order in which each restaurant first appears in the cart. The same grouping
// runs once for display and again at checkout; both derivations must agree,
// so subtotals are exact decimals, never float approximations.
//
// When several items of one restaurant carry different cached snapshots, the
// newest snapshot wins.
func GroupByRestaurant(items []domain.CartLineItem) []domain.CartGroup {
	groups := make([]domain.CartGroup, 0)
	index := make(map[string]int)

	for _, item := range items {
		i, ok := index[item.RestaurantID]
		if !ok {
			i = len(groups)
			index[item.RestaurantID] = i
			groups = append(groups, domain.CartGroup{})
		}
		groups[i].Restaurant = item.Restaurant
		groups[i].Items = append(groups[i].Items, item)
		groups[i].Subtotal = groups[i].Subtotal.Add(item.Subtotal())
	}

	return groups
}
