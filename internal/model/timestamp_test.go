package model

import (
	"testing"
	"time"

	"gopkg.in/yaml.v2"
	"gotest.tools/v3/assert"
)

func TestParseTimestamp(t *testing.T) {
	zone := time.FixedZone("", 5*60*60)
	withSeconds := time.Date(2023, time.August, 28, 18, 0, 0, 0, zone)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "ShortMonth12h", input: "28 Aug 2023 06:00:00 PM +0500", want: withSeconds},
		{name: "ShortMonth24h", input: "28 Aug 2023 18:00:00 +0500", want: withSeconds},
		{name: "LongMonth12h", input: "28 August 2023 06:00:00 PM +0500", want: withSeconds},
		{name: "LongMonth24h", input: "28 August 2023 18:00:00 +0500", want: withSeconds},
		{name: "ShortMonth12hNoSeconds", input: "28 Aug 2023 06:00 PM +0500", want: withSeconds},
		{name: "ShortMonth24hNoSeconds", input: "28 Aug 2023 18:00 +0500", want: withSeconds},
		{name: "LongMonth12hNoSeconds", input: "28 August 2023 06:00 PM +0500", want: withSeconds},
		{name: "LongMonth24hNoSeconds", input: "28 August 2023 18:00 +0500", want: withSeconds},
		{name: "SingleDigitDay", input: "3 Aug 2023 18:00 +0500", want: time.Date(2023, time.August, 3, 18, 0, 0, 0, zone)},
		{name: "RFC3339", input: "2023-08-28T18:00:00+05:00", want: withSeconds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			assert.NilError(t, err)
			assert.Assert(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	_, err := ParseTimestamp("last tuesday")
	assert.Error(t, err, `invalid datetime format "last tuesday"`)
}

func TestTimestampYAML(t *testing.T) {
	var doc struct {
		Created *Timestamp `yaml:"created"`
	}
	err := yaml.Unmarshal([]byte(`created: 28 Aug 2023 18:00 +0500`), &doc)
	assert.NilError(t, err)
	assert.Assert(t, doc.Created != nil)
	assert.Equal(t, doc.Created.String(), "28 Aug 2023 18:00:00 +0500")
	assert.Equal(t, doc.Created.NoSeconds(), "28 Aug 2023 18:00 +0500")
	assert.Equal(t, doc.Created.RSS(), "Mon, 28 Aug 2023 18:00:00 +0500")
}
