package fonnte

import (
	"encoding/json"
	"errors"
)

// Result is the outcome of a single gateway call. It is decoded once at the
// client boundary; callers never see the raw response map.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Reason  string          `json:"error,omitempty"`
}

// Succeeded builds a successful Result carrying the given payload.
func Succeeded(data json.RawMessage) Result {
	return Result{Success: true, Data: data}
}

// Failed builds a failed Result with a human-readable reason.
func Failed(reason string) Result {
	return Result{Success: false, Reason: reason}
}

// Decode unmarshals the payload of a successful result into v.
func (r Result) Decode(v interface{}) error {
	if !r.Success {
		return errors.New(r.Reason)
	}
	if len(r.Data) == 0 {
		return errors.New("fonnte: empty payload")
	}
	return json.Unmarshal(r.Data, v)
}

// Device is one WhatsApp sender registered on the account.
type Device struct {
	Device  string `json:"device"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Token   string `json:"token"`
	Package string `json:"package,omitempty"`
}

// QRActivation is returned when pairing a device.
type QRActivation struct {
	URL string `json:"url,omitempty"`
	QR  string `json:"qr,omitempty"`
}

// envelope is the common shape of every Fonnte response body.
type envelope struct {
	Status bool            `json:"status"`
	Reason string          `json:"reason"`
	Detail string          `json:"detail"`
	Data   json.RawMessage `json:"data"`
}
