package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	prev := Out
	Out = &buf
	t.Cleanup(func() { Out = prev })

	Table([]string{"ID", "Modelo"}, [][]string{{"1", "Onix"}, {"22", "Renegade"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "------")
	assert.Contains(t, lines[3], "Renegade")
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "R$ 48.990", FormatPrice(48990))
	assert.Equal(t, "R$ 1.250.000", FormatPrice(1250000))
	assert.Equal(t, "R$ 900", FormatPrice(900))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "2m 5s", FormatDuration(125*time.Second))
	assert.Equal(t, "1h 0m 1s", FormatDuration(time.Hour+time.Second))
}

func TestSpin(t *testing.T) {
	var buf bytes.Buffer
	prev := Err
	Err = &buf
	t.Cleanup(func() { Err = prev })

	boom := errors.New("boom")
	assert.ErrorIs(t, Spin("loading", true, func() error { return boom }), boom)
	assert.Empty(t, buf.String())

	ran := false
	assert.NoError(t, Spin("loading", false, func() error { ran = true; return nil }))
	assert.True(t, ran)
}
