package board

import (
	"fmt"
	"strings"
)

// Category is one of the three fixed catalog tags.
type Category string

const (
	Crew      Category = "crew"
	Truck     Category = "truck"
	Equipment Category = "equipment"
)

// Categories lists the categories in display order.
var Categories = []Category{Crew, Truck, Equipment}

var icons = map[Category]string{
	Crew:      "👥",
	Truck:     "🚚",
	Equipment: "🔧",
}

func (c Category) Valid() bool {
	_, ok := icons[c]
	return ok
}

func (c Category) Icon() string {
	return icons[c]
}

// Title returns the category name with its first letter upper-cased.
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}
