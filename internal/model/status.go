package model

type OrderStatus string

const (
	StatusCreated OrderStatus = "created"
	StatusPaid    OrderStatus = "paid"
	StatusFailed  OrderStatus = "failed"
)

// reconcilerNext covers only the webhook-driven path. paid→paid is allowed so
// redelivered events stay a no-op. Admin overrides bypass this table entirely
// and may set any value (see OrderRepository.SetStatus).
var reconcilerNext = map[OrderStatus]map[OrderStatus]bool{
	StatusCreated: {StatusPaid: true, StatusFailed: true},
	StatusPaid:    {StatusPaid: true},
	StatusFailed:  {},
}

func CanTransition(from, to OrderStatus) bool {
	return reconcilerNext[from][to]
}
