package model

import (
	"fmt"
	"strings"
	"time"
)

// DisplayLayout is how timestamps are written back out for humans.
const DisplayLayout = "_2 Jan 2006 15:04:05 -0700"

const noSecondsLayout = "_2 Jan 2006 15:04 -0700"

// Layouts accepted for the `created` front matter field, tried in order.
var createdLayouts = []string{
	"_2 Jan 2006 03:04:05 PM -0700",
	DisplayLayout,
	"_2 January 2006 03:04:05 PM -0700",
	"_2 January 2006 15:04:05 -0700",
	"_2 Jan 2006 03:04 PM -0700",
	noSecondsLayout,
	"_2 January 2006 03:04 PM -0700",
	"_2 January 2006 15:04 -0700",
	time.RFC3339,
}

// Timestamp is a front matter date. It keeps the offset it was written with.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s using any of the accepted front matter layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid datetime format %q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Timestamp) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) String() string {
	return t.Format(DisplayLayout)
}

// NoSeconds formats the timestamp without the seconds field.
func (t Timestamp) NoSeconds() string {
	return t.Format(noSecondsLayout)
}

// RSS formats the timestamp the way RSS 2.0 dates are written.
func (t Timestamp) RSS() string {
	return t.Format(time.RFC1123Z)
}
