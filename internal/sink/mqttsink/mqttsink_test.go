// internal/sink/mqttsink/mqttsink_test.go
package mqttsink

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/elmotron/modpoll/internal/registry"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(Config{Enabled: false})
	if err != ErrDisabled {
		t.Fatalf("Connect() err=%v, want ErrDisabled", err)
	}
}

func TestPayload(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var blob registry.Blob
	blob[0] = 0xFF

	raw, err := Payload(ts, map[string]registry.Value{
		"voltage": registry.F32(1.5),
		"fault":   registry.Bool(false),
		"serial":  blob,
	})
	if err != nil {
		t.Fatalf("Payload() err=%v", err)
	}

	var doc struct {
		Time      string                 `json:"time"`
		Registers map[string]interface{} `json:"registers"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if doc.Time != "2024-05-01T12:00:00Z" {
		t.Errorf("time=%s", doc.Time)
	}
	if doc.Registers["voltage"] != 1.5 {
		t.Errorf("voltage=%v", doc.Registers["voltage"])
	}
	if doc.Registers["fault"] != false {
		t.Errorf("fault=%v", doc.Registers["fault"])
	}
	serial, ok := doc.Registers["serial"].(string)
	if !ok || len(serial) != 132 || serial[:2] != "ff" {
		t.Errorf("serial=%v", doc.Registers["serial"])
	}
}
