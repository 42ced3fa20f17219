package recurring_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmcouto/centavo/internal/recurring"
)

func TestWriteCalendar(t *testing.T) {
	rent := validRule()

	groceries := validRule()
	groceries.Description = "Groceries"
	groceries.Frequency = recurring.FrequencyWeekly
	groceries.DayOfWeek = int(time.Saturday)
	groceries.Notes = "weekly shop"

	var buf bytes.Buffer
	err := recurring.WriteCalendar(&buf, []*recurring.Rule{&rent, &groceries})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "END:VCALENDAR")
	assert.Contains(t, out, "BEGIN:VEVENT")

	assert.Contains(t, out, "UID:"+rent.ID.String())
	assert.Contains(t, out, "SUMMARY:Rent")
	assert.Contains(t, out, "BYMONTHDAY=1")

	assert.Contains(t, out, "UID:"+groceries.ID.String())
	assert.Contains(t, out, "SUMMARY:Groceries")
	assert.Contains(t, out, "BYDAY=SA")
	assert.Contains(t, out, "DESCRIPTION:weekly shop")
}

func TestWriteCalendar_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := recurring.WriteCalendar(&buf, nil)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "BEGIN:VCALENDAR")
	assert.NotContains(t, buf.String(), "BEGIN:VEVENT")
}

func TestWriteCalendar_UnmappableRule(t *testing.T) {
	bad := validRule()
	bad.Frequency = "yearly"

	var buf bytes.Buffer
	err := recurring.WriteCalendar(&buf, []*recurring.Rule{&bad})
	assert.Error(t, err)
}
