package fonnte

import (
	"context"
	"encoding/json"
	"net/url"
)

// ListDevices returns the devices registered on the account. The payload
// decodes into []Device.
func (c *Client) ListDevices(ctx context.Context) Result {
	return c.do(ctx, call{
		op:       "get_devices",
		path:     pathGetDevices,
		token:    c.config.AccountToken,
		fallback: "Failed to fetch devices",
		unwrap:   true,
	})
}

// ConnectDevice requests a pairing QR code for a device. The payload decodes
// into QRActivation.
func (c *Client) ConnectDevice(ctx context.Context, deviceToken string) Result {
	if deviceToken == "" {
		return Failed(reasonTokenMissing)
	}
	return c.do(ctx, call{
		op:       "qr_activation",
		path:     pathQR,
		token:    c.config.AccountToken,
		form:     url.Values{"token": {deviceToken}},
		fallback: "Failed to connect device",
		project: func(body []byte) (json.RawMessage, error) {
			var qr QRActivation
			if err := json.Unmarshal(body, &qr); err != nil {
				return nil, err
			}
			return json.Marshal(qr)
		},
	})
}

// DisconnectDevice logs a paired device out of WhatsApp.
func (c *Client) DisconnectDevice(ctx context.Context, deviceToken string) Result {
	if deviceToken == "" {
		return Failed(reasonTokenMissing)
	}
	return c.do(ctx, call{
		op:       "disconnect",
		path:     pathDisconnect,
		token:    c.config.AccountToken,
		json:     map[string]string{"token": deviceToken},
		fallback: "Failed to disconnect device",
	})
}

// DeviceProfile fetches the WhatsApp profile of a device.
func (c *Client) DeviceProfile(ctx context.Context, deviceToken string) Result {
	if deviceToken == "" {
		return Failed(reasonTokenMissing)
	}
	return c.do(ctx, call{
		op:       "device_profile",
		path:     pathFetchProfile,
		token:    c.config.AccountToken,
		json:     map[string]string{"token": deviceToken},
		fallback: "Failed to get device profile",
	})
}

// DeviceStatus fetches the connection status of a device.
func (c *Client) DeviceStatus(ctx context.Context, deviceToken string) Result {
	if deviceToken == "" {
		return Failed(reasonTokenMissing)
	}
	return c.do(ctx, call{
		op:       "device_status",
		path:     pathStatus,
		token:    c.config.AccountToken,
		json:     map[string]string{"token": deviceToken},
		fallback: "Failed to get device status",
	})
}

// AccountInfo validates the account token and returns account details.
func (c *Client) AccountInfo(ctx context.Context) Result {
	return c.do(ctx, call{
		op:       "account_info",
		path:     pathValidate,
		token:    c.config.AccountToken,
		fallback: "Failed to get account info",
	})
}

// DeleteDevice removes a device from the account. Fonnte requires an OTP that
// it sends to the device owner beforehand.
func (c *Client) DeleteDevice(ctx context.Context, deviceToken, otp string) Result {
	if deviceToken == "" {
		return Failed(reasonTokenMissing)
	}
	return c.do(ctx, call{
		op:       "delete_device",
		path:     pathDeleteDevice,
		token:    deviceToken,
		form:     url.Values{"otp": {otp}},
		fallback: "Failed to delete device",
	})
}
