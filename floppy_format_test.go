package main

import "testing"

func TestDataValueIsByte(t *testing.T) {
	cases := []struct {
		v    DataValue
		want bool
	}{
		{0, true},
		{0xff, true},
		{0x41, true},
		{-1, false},
		{IndexAM, false},
		{IDAM, false},
		{DataAM, false},
		{CRC, false},
		{NoData, false},
		{ErrVal, false},
	}
	for _, c := range cases {
		if got := c.v.IsByte(); got != c.want {
			t.Errorf("DataValue(%d).IsByte() = %v, want %v", c.v, got, c.want)
		}
	}
}
