package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// ImageList is an ordered set of evidence image URLs. The database column
// keeps the legacy comma-joined form; everything above the storage layer
// works with the slice.
type ImageList []string

// ParseImageList splits a comma-joined column value, dropping blank entries.
func ParseImageList(raw string) ImageList {
	list := ImageList{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			list = append(list, p)
		}
	}
	return list
}

// Join returns the comma-joined persisted form.
func (l ImageList) Join() string {
	return strings.Join(l.Compact(), ",")
}

// Compact returns the list without blank entries.
func (l ImageList) Compact() ImageList {
	out := make(ImageList, 0, len(l))
	for _, u := range l {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Contains reports whether url is part of the list.
func (l ImageList) Contains(url string) bool {
	for _, u := range l {
		if u == url {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (l ImageList) Value() (driver.Value, error) {
	return l.Join(), nil
}

// Scan implements sql.Scanner.
func (l *ImageList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = ImageList{}
	case string:
		*l = ParseImageList(v)
	case []byte:
		*l = ParseImageList(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ImageList", src)
	}
	return nil
}
