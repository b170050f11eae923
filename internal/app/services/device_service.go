package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/silani/discipline/internal/pkg/apperrors"
	"github.com/silani/discipline/internal/pkg/fonnte"
)

// overviewConcurrency bounds concurrent status checks in Overview
const overviewConcurrency = 4

// DeviceGateway is the device administration surface of the messaging gateway
type DeviceGateway interface {
	ListDevices(ctx context.Context) fonnte.Result
	ConnectDevice(ctx context.Context, deviceToken string) fonnte.Result
	DisconnectDevice(ctx context.Context, deviceToken string) fonnte.Result
	DeviceProfile(ctx context.Context, deviceToken string) fonnte.Result
	DeviceStatus(ctx context.Context, deviceToken string) fonnte.Result
	AccountInfo(ctx context.Context) fonnte.Result
	DeleteDevice(ctx context.Context, deviceToken, otp string) fonnte.Result
}

// DeviceState is a device together with the outcome of its status check
type DeviceState struct {
	Device fonnte.Device `json:"device"`
	Status fonnte.Result `json:"status"`
}

// DeviceService exposes WhatsApp sender administration
type DeviceService struct {
	gateway DeviceGateway
	logger  zerolog.Logger
}

// NewDeviceService creates a new device service
func NewDeviceService(gateway DeviceGateway, logger zerolog.Logger) *DeviceService {
	return &DeviceService{gateway: gateway, logger: logger}
}

// List returns the devices registered on the account
func (s *DeviceService) List(ctx context.Context) ([]fonnte.Device, error) {
	result := s.gateway.ListDevices(ctx)
	if !result.Success {
		s.logger.Warn().Str("reason", result.Reason).Msg("Failed to fetch devices")
		return nil, apperrors.NewGatewayError(result.Reason)
	}

	var devices []fonnte.Device
	if err := result.Decode(&devices); err != nil {
		s.logger.Warn().Err(err).Msg("Unexpected device list payload")
		return nil, apperrors.NewGatewayError("unexpected device list payload")
	}
	return devices, nil
}

// Overview lists devices and checks each device's status concurrently. A
// failing status check only affects its own entry.
func (s *DeviceService) Overview(ctx context.Context) ([]DeviceState, error) {
	devices, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	states := make([]DeviceState, len(devices))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overviewConcurrency)
	for i, d := range devices {
		i, d := i, d
		states[i].Device = d
		g.Go(func() error {
			states[i].Status = s.gateway.DeviceStatus(gctx, d.Token)
			return nil
		})
	}
	_ = g.Wait()

	return states, nil
}

// Activate requests a pairing QR code for a device
func (s *DeviceService) Activate(ctx context.Context, device, deviceToken string) (*fonnte.QRActivation, error) {
	if strings.TrimSpace(deviceToken) == "" {
		return nil, fmt.Errorf("%w: token is required", apperrors.ErrValidationFailed)
	}

	s.logger.Info().Str("device", device).Str("token", maskToken(deviceToken)).Msg("Activating device")
	result := s.gateway.ConnectDevice(ctx, deviceToken)
	if !result.Success {
		s.logger.Warn().Str("device", device).Str("reason", result.Reason).Msg("Device activation failed")
		return nil, apperrors.NewGatewayError(result.Reason)
	}

	var qr fonnte.QRActivation
	if err := result.Decode(&qr); err != nil {
		return nil, apperrors.NewGatewayError("unexpected activation payload")
	}
	return &qr, nil
}

// Disconnect logs a device out of WhatsApp
func (s *DeviceService) Disconnect(ctx context.Context, deviceToken string) (fonnte.Result, error) {
	if strings.TrimSpace(deviceToken) == "" {
		return fonnte.Result{}, fmt.Errorf("%w: token is required", apperrors.ErrValidationFailed)
	}

	s.logger.Info().Str("token", maskToken(deviceToken)).Msg("Disconnecting device")
	result := s.gateway.DisconnectDevice(ctx, deviceToken)
	if !result.Success {
		return result, apperrors.NewGatewayError(result.Reason)
	}
	return result, nil
}

// Delete removes a device from the gateway account. The OTP is the code
// Fonnte sends to the device owner.
func (s *DeviceService) Delete(ctx context.Context, deviceToken, otp string) (fonnte.Result, error) {
	if strings.TrimSpace(deviceToken) == "" {
		return fonnte.Result{}, fmt.Errorf("%w: token is required", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(otp) == "" {
		return fonnte.Result{}, fmt.Errorf("%w: otp is required", apperrors.ErrValidationFailed)
	}

	s.logger.Info().Str("token", maskToken(deviceToken)).Msg("Deleting device")
	result := s.gateway.DeleteDevice(ctx, deviceToken, strings.TrimSpace(otp))
	if !result.Success {
		s.logger.Warn().Str("token", maskToken(deviceToken)).Str("reason", result.Reason).Msg("Device deletion failed")
		return result, apperrors.NewGatewayError(result.Reason)
	}
	return result, nil
}

// Status reports a device's connection status
func (s *DeviceService) Status(ctx context.Context, deviceToken string) (fonnte.Result, error) {
	if strings.TrimSpace(deviceToken) == "" {
		return fonnte.Result{}, fmt.Errorf("%w: token is required", apperrors.ErrValidationFailed)
	}
	result := s.gateway.DeviceStatus(ctx, deviceToken)
	if !result.Success {
		return result, apperrors.NewGatewayError(result.Reason)
	}
	return result, nil
}

// Profile returns a device's WhatsApp profile
func (s *DeviceService) Profile(ctx context.Context, deviceToken string) (fonnte.Result, error) {
	result := s.gateway.DeviceProfile(ctx, deviceToken)
	if !result.Success {
		return result, apperrors.NewGatewayError(result.Reason)
	}
	return result, nil
}

// Account returns the account details behind the configured token
func (s *DeviceService) Account(ctx context.Context) (fonnte.Result, error) {
	result := s.gateway.AccountInfo(ctx)
	if !result.Success {
		return result, apperrors.NewGatewayError(result.Reason)
	}
	return result, nil
}

func maskToken(token string) string {
	if len(token) <= 10 {
		return "..."
	}
	return token[:10] + "..."
}
