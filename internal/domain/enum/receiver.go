package enum

import (
	"encoding/json"
	"strings"
)

// Receiver is the shop member who received a PhonePe transfer
type Receiver string

const (
	ReceiverShankar     Receiver = "SHANKAR"
	ReceiverRamakrishna Receiver = "RAMAKRISHNA"
	ReceiverPavan       Receiver = "PAVAN"
	ReceiverAravind     Receiver = "ARAVIND"
	ReceiverOthers      Receiver = "OTHERS"
)

// Receivers lists the selectable receivers in display order
var Receivers = []Receiver{
	ReceiverShankar,
	ReceiverRamakrishna,
	ReceiverPavan,
	ReceiverAravind,
	ReceiverOthers,
}

func (r Receiver) String() string {
	return string(r)
}

// IsValid reports whether r is one of the known receivers
func (r Receiver) IsValid() bool {
	for _, known := range Receivers {
		if r == known {
			return true
		}
	}
	return false
}

func (r Receiver) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

func (r *Receiver) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*r = Receiver(strings.ToUpper(str))
	return nil
}
