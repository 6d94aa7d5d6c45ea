package store

import (
	"bytes"

	"github.com/google/btree"
)

// mergeWithParent combines the cached btree state within [start, end) with
// everything the parent iterator returns. Cached writes shadow the parent
// values and cached deletes hide them. The result is in ascending order.
//
// The parent iterator is always released.
func mergeWithParent(bt *btree.BTree, start, end []byte, parent Iterator) ([]Model, error) {
	back, err := ReadAll(parent)
	if err != nil {
		return nil, err
	}
	cached := ascendRange(bt, start, end)

	res := make([]Model, 0, len(back)+len(cached))
	var i, j int
	for i < len(back) || j < len(cached) {
		var cmp int
		switch {
		case i == len(back):
			cmp = 1
		case j == len(cached):
			cmp = -1
		default:
			cmp = bytes.Compare(back[i].Key, cached[j].Key())
		}

		switch {
		case cmp < 0:
			res = append(res, back[i])
			i++
		case cmp > 0:
			if item, ok := cached[j].(setItem); ok {
				res = append(res, Pair(item.key, item.value))
			}
			j++
		default:
			// Same key in both, the cached version wins.
			if item, ok := cached[j].(setItem); ok {
				res = append(res, Pair(item.key, item.value))
			}
			i++
			j++
		}
	}
	return res, nil
}

// ascendRange returns all btree items with a key within [start, end). A nil
// start or end means an unbounded range on that side.
func ascendRange(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	collect := func(i btree.Item) bool {
		items = append(items, i.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}
