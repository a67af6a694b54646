package verification

import "fmt"

// Status is the outcome reported to the caller. The numeric values are part of
// the wire contract.
type Status int

const (
	StatusSuccess        Status = 0
	StatusRedisErr       Status = 1
	StatusException      Status = 2
	StatusDeliveryFailed Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusRedisErr:
		return "redis_error"
	case StatusException:
		return "exception"
	case StatusDeliveryFailed:
		return "delivery_failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result always carries the address exactly as it was supplied.
type Result struct {
	Address string
	Status  Status
}
