package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterval(t *testing.T) {
	tests := []struct {
		itv     Interval
		n_hour  int
		delta_t float64
	}{
		{IntervalH1, 1, 3600.0},
		{IntervalM30, 2, 1800.0},
		{IntervalM15, 4, 900.0},
		{IntervalM10, 6, 600.0},
		{IntervalM5, 12, 300.0},
	}
	for _, tt := range tests {
		t.Run(string(tt.itv), func(t *testing.T) {
			n, err := tt.itv.get_n_hour()
			require.NoError(t, err)
			assert.Equal(t, tt.n_hour, n)

			h, err := tt.itv.get_time()
			require.NoError(t, err)
			assert.InDelta(t, 1.0/float64(tt.n_hour), h, 1e-12)

			dt, err := tt.itv.get_delta_t()
			require.NoError(t, err)
			assert.InDelta(t, tt.delta_t, dt, 1e-9)

			d, err := tt.itv.get_daily_number()
			require.NoError(t, err)
			assert.Equal(t, 24*tt.n_hour, d)
		})
	}

	_, err := Interval("20m").get_time()
	assert.ErrorIs(t, err, errInvalidInterval)
}
