package store

import (
	"github.com/mirelcoau/tristore/pkg/kv"
	"github.com/mirelcoau/tristore/pkg/triple"
)

// tableFor maps a triple ordering to the kv table that index is stored under.
func tableFor(order triple.Order) kv.Table {
	switch order {
	case triple.POS:
		return kv.POS
	case triple.OSP:
		return kv.OSP
	default:
		return kv.SPO
	}
}

var allOrders = [3]triple.Order{triple.SPO, triple.POS, triple.OSP}
