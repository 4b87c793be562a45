package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JewelryItems is stored as a JSON array column on the invoice row
type JewelryItems []JewelryItem

func (items JewelryItems) Value() (driver.Value, error) {
	return marshalColumn(items, len(items))
}

func (items *JewelryItems) Scan(value interface{}) error {
	return scanColumn(value, items)
}

// GormDBDataType picks the column type per dialect
func (JewelryItems) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonColumnType(db)
}

// Payments is stored as a JSON array column on the invoice row
type Payments []PaymentDetails

func (p Payments) Value() (driver.Value, error) {
	return marshalColumn(p, len(p))
}

func (p *Payments) Scan(value interface{}) error {
	return scanColumn(value, p)
}

// GormDBDataType picks the column type per dialect
func (Payments) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonColumnType(db)
}

func marshalColumn(v interface{}, n int) (driver.Value, error) {
	if n == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func scanColumn(value interface{}, dest interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column value of type %T", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

func jsonColumnType(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}
