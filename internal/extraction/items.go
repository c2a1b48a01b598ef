package extraction

import (
	"strconv"
	"strings"

	"github.com/billscan/billscan/internal/entity"
)

var priceStripper = strings.NewReplacer("$", "", "€", "", ",", "")

// extractItems pulls the repeating name/quantity/price triples out of the
// line view. Entries whose numbers fail to parse are dropped without
// failing the document.
func extractItems(lines string) []entity.LineItem {
	var items []entity.LineItem
	for _, m := range itemPattern.FindAllStringSubmatch(lines, -1) {
		quantity, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(priceStripper.Replace(m[3]), 64)
		if err != nil {
			continue
		}
		items = append(items, entity.LineItem{
			Name:     strings.TrimSpace(m[1]),
			Quantity: quantity,
			Price:    price,
		})
	}
	return items
}
