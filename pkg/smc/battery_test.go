//go:build darwin && !ios

package smc

import "testing"

func TestGetBatteryCharge(t *testing.T) {
	tests := []struct {
		name    string
		value   []byte
		want    int
		wantErr bool
	}{
		{name: "single byte", value: []byte{57}, want: 57},
		{name: "full", value: []byte{100}, want: 100},
		{name: "wrong length", value: []byte{1, 2}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewMock(map[string][]byte{BatteryChargeKey: tt.value})
			got, err := c.GetBatteryCharge()
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetBatteryCharge() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("GetBatteryCharge() = %v, want %v", got, tt.want)
			}
		})
	}
}
