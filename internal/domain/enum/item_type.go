package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ItemType discriminates what kind of charge an invoice line is. It does not
// affect how the line is totaled, only which set of lines a caller feeds to
// the calculator.
type ItemType int

const (
	ItemTypeProduct ItemType = 1
	ItemTypeTask    ItemType = 2
	ItemTypeFee     ItemType = 3
)

func (t ItemType) String() string {
	names := [...]string{"Product", "Task", "Fee"}
	idx := int(t) - 1
	if idx < 0 || idx >= len(names) {
		return "Product"
	}
	return names[idx]
}

func (t ItemType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ItemType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = ItemType(i)
		return nil
	}
	switch str {
	case "Product":
		*t = ItemTypeProduct
	case "Task":
		*t = ItemTypeTask
	case "Fee":
		*t = ItemTypeFee
	}
	return nil
}

func (t ItemType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *ItemType) Scan(value interface{}) error {
	if value == nil {
		*t = ItemTypeProduct
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = ItemType(v)
	case int:
		*t = ItemType(v)
	}
	return nil
}
