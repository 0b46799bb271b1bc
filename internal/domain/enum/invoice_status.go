package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus int

const (
	InvoiceStatusDraft     InvoiceStatus = 1
	InvoiceStatusSent      InvoiceStatus = 2
	InvoiceStatusPartial   InvoiceStatus = 3
	InvoiceStatusPaid      InvoiceStatus = 4
	InvoiceStatusCancelled InvoiceStatus = 5
)

func (s InvoiceStatus) String() string {
	names := [...]string{"Draft", "Sent", "Partial", "Paid", "Cancelled"}
	idx := int(s) - 1
	if idx < 0 || idx >= len(names) {
		return "Draft"
	}
	return names[idx]
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	switch str {
	case "Draft":
		*s = InvoiceStatusDraft
	case "Sent":
		*s = InvoiceStatusSent
	case "Partial":
		*s = InvoiceStatusPartial
	case "Paid":
		*s = InvoiceStatusPaid
	case "Cancelled":
		*s = InvoiceStatusCancelled
	}
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
