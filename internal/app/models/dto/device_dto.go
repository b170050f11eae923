package dto

// ActivateDeviceRequest asks the gateway for a pairing QR code
type ActivateDeviceRequest struct {
	Device string `json:"device" binding:"required" example:"6281234567890"`
	Token  string `json:"token" binding:"required"`
}

// DeleteDeviceRequest carries the OTP Fonnte sends before removing a device
type DeleteDeviceRequest struct {
	OTP string `json:"otp" binding:"required" example:"123456"`
}

// DeviceTokenRequest identifies a device by its token
type DeviceTokenRequest struct {
	Token string `json:"token" binding:"required"`
}
