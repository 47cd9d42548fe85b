package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_PerfStats_00(t *testing.T) {
	stats := NewPerfStats()
	buf := make([][]byte, 0, 16)
	//
	for i := 0; i < 16; i++ {
		buf = append(buf, make([]byte, 1024))
	}
	//
	report := stats.Report()
	assert.Len(t, buf, 16)
	assert.GreaterOrEqual(t, report.Allocated, uint64(16*1024))
	assert.Contains(t, report.String(), "Kb")
}

func Test_Option_00(t *testing.T) {
	some := Some(3)
	none := None[int]()
	//
	assert.True(t, some.HasValue())
	assert.Equal(t, 3, some.Unwrap())
	assert.Equal(t, "Some(3)", some.String())
	assert.True(t, none.IsEmpty())
	assert.Equal(t, 7, none.UnwrapOr(7))
	assert.Equal(t, "None", none.String())
	assert.Panics(t, func() { none.Unwrap() })
}
