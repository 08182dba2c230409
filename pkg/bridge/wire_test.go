package bridge

import (
	"encoding/json"
	"testing"
)

func TestNewMethodResponse(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{name: "int", result: Success(57), want: `{"result":57}`},
		{name: "string", result: Success("iOS 17.4"), want: `{"result":"iOS 17.4"}`},
		{
			name:   "unavailable",
			result: Failure(ErrUnavailable),
			want:   `{"error":{"code":"UNAVAILABLE","message":"Battery level not available."}}`,
		},
		{name: "not implemented", result: NotImplemented(), want: `{"notImplemented":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := NewMethodResponse(tt.result)
			if err != nil {
				t.Fatal(err)
			}
			b, err := json.Marshal(resp)
			if err != nil {
				t.Fatal(err)
			}
			if string(b) != tt.want {
				t.Errorf("got %s, want %s", b, tt.want)
			}
		})
	}
}
