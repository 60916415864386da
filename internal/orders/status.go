package orders

type Status string

// Known statuses. Callers may supply any string: values outside this set are
// stored as-is and no transition is rejected. Billing keys off StatusPaid only.
const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusCanceled Status = "canceled"
)
