package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// PaymentMode represents how a payment entry was settled
type PaymentMode string

const (
	PaymentModeCash     PaymentMode = "CASH"
	PaymentModePhonePe  PaymentMode = "PHONEPE"
	PaymentModeDiscount PaymentMode = "DISCOUNT"
)

func (m PaymentMode) String() string {
	return string(m)
}

// IsValid reports whether m is one of the known modes
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModePhonePe, PaymentModeDiscount:
		return true
	}
	return false
}

// IsDiscount reports whether the entry is a write-off rather than money received
func (m PaymentMode) IsDiscount() bool {
	return m == PaymentModeDiscount
}

// RequiresReceiver reports whether the mode needs a named receiver
func (m PaymentMode) RequiresReceiver() bool {
	return m == PaymentModePhonePe
}

func (m PaymentMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *PaymentMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*m = PaymentMode(strings.ToUpper(str))
	return nil
}

func (m PaymentMode) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMode) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentModeCash
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = PaymentMode(v)
	case []byte:
		*m = PaymentMode(v)
	}
	return nil
}
