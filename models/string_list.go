package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList disimpan sebagai JSON array di kolom TEXT
type StringList []string

func (sl StringList) Value() (driver.Value, error) {
	if sl == nil {
		return "[]", nil
	}
	data, err := json.Marshal(sl)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (sl *StringList) Scan(value interface{}) error {
	if value == nil {
		*sl = StringList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for StringList")
	}

	if len(data) == 0 {
		*sl = StringList{}
		return nil
	}
	return json.Unmarshal(data, sl)
}

// Contains memeriksa apakah item ada di dalam list
func (sl StringList) Contains(item string) bool {
	for _, s := range sl {
		if s == item {
			return true
		}
	}
	return false
}
