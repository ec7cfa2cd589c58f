package poc_test

import (
	"testing"

	"poc-go/internal/poc"
	"poc-go/internal/testutil"
)

func TestRecordID(t *testing.T) {
	clock := testutil.FixedClock()

	t.Run("long suffix is truncated", func(t *testing.T) {
		got := poc.RecordID(clock.Now(), poc.UUIDGenerator{})
		// "cap-" + 16-char timestamp + "-" + 8-char suffix
		if len(got) != 29 {
			t.Errorf("RecordID() = %q, want 29 characters", got)
		}
	})

	t.Run("time prefix is UTC", func(t *testing.T) {
		got := poc.RecordID(clock.Now(), testutil.NewStubIDGenerator())
		want := "cap-20240310T091500Z-id-1"
		if got != want {
			t.Errorf("RecordID() = %q, want %q", got, want)
		}
	})
}

func TestCaptureRecord_Anchored(t *testing.T) {
	empty := ""
	tx := "0xabc"

	tests := []struct {
		name   string
		record poc.CaptureRecord
		want   bool
	}{
		{name: "nil tx", record: poc.CaptureRecord{}, want: false},
		{name: "empty tx", record: poc.CaptureRecord{AnchorTx: &empty}, want: false},
		{name: "tx set", record: poc.CaptureRecord{AnchorTx: &tx}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Anchored(); got != tt.want {
				t.Errorf("Anchored() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCaptureRecord_HasMetadata(t *testing.T) {
	empty := ""
	location := "48.8584,2.2945"

	tests := []struct {
		name   string
		record poc.CaptureRecord
		want   bool
	}{
		{name: "nothing set", record: poc.CaptureRecord{}, want: false},
		{name: "device only", record: poc.CaptureRecord{DeviceID: "d"}, want: false},
		{name: "empty location", record: poc.CaptureRecord{DeviceID: "d", Location: &empty}, want: false},
		{name: "location only", record: poc.CaptureRecord{Location: &location}, want: false},
		{name: "both set", record: poc.CaptureRecord{DeviceID: "d", Location: &location}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.HasMetadata(); got != tt.want {
				t.Errorf("HasMetadata() = %v, want %v", got, tt.want)
			}
		})
	}
}
