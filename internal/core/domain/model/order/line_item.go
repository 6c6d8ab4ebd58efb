package order

import (
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

const MaxQuantityPerItem = 1000

// LineItem is a product and the quantity ordered.
type LineItem struct {
	productID kernel.UUID
	quantity  int
}

func NewLineItem(productID kernel.UUID, quantity int) (LineItem, error) {
	if err := productID.Validate(); err != nil {
		return LineItem{}, err
	}
	if quantity < 1 || quantity > MaxQuantityPerItem {
		return LineItem{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxQuantityPerItem)
	}
	return LineItem{productID: productID, quantity: quantity}, nil
}

func (li LineItem) ProductID() kernel.UUID {
	return li.productID
}

func (li LineItem) Quantity() int {
	return li.quantity
}

// MergeLineItems folds repeated products into one item, keeping first-seen order, so a
// reservation touches each product record once.
func MergeLineItems(items []LineItem) ([]LineItem, error) {
	merged := make([]LineItem, 0, len(items))
	index := make(map[kernel.UUID]int, len(items))
	for _, it := range items {
		if i, ok := index[it.productID]; ok {
			merged[i].quantity += it.quantity
			if merged[i].quantity > MaxQuantityPerItem {
				return nil, errs.NewValueIsOutOfRangeError("quantity", merged[i].quantity, 1, MaxQuantityPerItem)
			}
			continue
		}
		index[it.productID] = len(merged)
		merged = append(merged, it)
	}
	return merged, nil
}
