// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dex

import "fmt"

// Order selects how Traverse sequences a collection.
type Order int

const (
	// OrderInsertion walks the ring from its entry. No tree is built.
	OrderInsertion Order = iota
	// OrderLevel is breadth-first over the id tree.
	OrderLevel
	// OrderPre is pre-order over the id tree.
	OrderPre
	// OrderIn is in-order over the id tree, i.e. ascending id.
	OrderIn
	// OrderPost is post-order over the id tree.
	OrderPost
	// OrderName is ascending species name.
	OrderName
)

var orderNames = [...]string{
	OrderInsertion: "insertion",
	OrderLevel:     "level",
	OrderPre:       "pre",
	OrderIn:        "in",
	OrderPost:      "post",
	OrderName:      "name",
}

// DisplayOrders lists the tree orders in display-menu order.
var DisplayOrders = []Order{OrderLevel, OrderPre, OrderIn, OrderPost, OrderName}

func (o Order) String() string {
	if o < 0 || int(o) >= len(orderNames) {
		return fmt.Sprintf("Order(%d)", int(o))
	}
	return orderNames[o]
}
