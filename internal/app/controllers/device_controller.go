package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/silani/discipline/internal/app/models/dto"
	"github.com/silani/discipline/internal/middleware"
)

// DeviceController handles WhatsApp sender administration
type DeviceController struct {
	deviceService DeviceService
}

// NewDeviceController creates a new DeviceController
func NewDeviceController(deviceService DeviceService) *DeviceController {
	return &DeviceController{deviceService: deviceService}
}

// ListDevices lists the devices on the gateway account
// @Summary List devices
// @Tags devices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]fonnte.Device}
// @Failure 502 {object} dto.APIResponse "Gateway request failed"
// @Router /devices [get]
func (c *DeviceController) ListDevices(ctx *gin.Context) {
	devices, err := c.deviceService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(devices))
}

// DeviceOverview lists devices with their current connection status
// @Summary Device overview
// @Tags devices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]services.DeviceState}
// @Failure 502 {object} dto.APIResponse
// @Router /devices/overview [get]
func (c *DeviceController) DeviceOverview(ctx *gin.Context) {
	states, err := c.deviceService.Overview(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(states))
}

// ActivateDevice requests a pairing QR code
// @Summary Activate a device
// @Tags devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ActivateDeviceRequest true "Device and token"
// @Success 200 {object} dto.APIResponse{data=fonnte.QRActivation}
// @Failure 400 {object} dto.APIResponse
// @Failure 502 {object} dto.APIResponse
// @Router /devices/activate [post]
func (c *DeviceController) ActivateDevice(ctx *gin.Context) {
	var req dto.ActivateDeviceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	qr, err := c.deviceService.Activate(ctx, req.Device, req.Token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(qr))
}

// DisconnectDevice logs a device out of WhatsApp
// @Summary Disconnect a device
// @Tags devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DeviceTokenRequest true "Device token"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 502 {object} dto.APIResponse
// @Router /devices/disconnect [post]
func (c *DeviceController) DisconnectDevice(ctx *gin.Context) {
	var req dto.DeviceTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	if _, err := c.deviceService.Disconnect(ctx, req.Token); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Device disconnected successfully"}))
}

// DeviceStatus reports a device's connection status
// @Summary Device status
// @Tags devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DeviceTokenRequest true "Device token"
// @Success 200 {object} dto.APIResponse
// @Failure 502 {object} dto.APIResponse
// @Router /devices/status [post]
func (c *DeviceController) DeviceStatus(ctx *gin.Context) {
	var req dto.DeviceTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	result, err := c.deviceService.Status(ctx, req.Token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result.Data))
}

// DeviceProfile returns a device's WhatsApp profile
// @Summary Device profile
// @Tags devices
// @Produce json
// @Security BearerAuth
// @Param token path string true "Device token"
// @Success 200 {object} dto.APIResponse
// @Failure 502 {object} dto.APIResponse
// @Router /devices/{token} [get]
func (c *DeviceController) DeviceProfile(ctx *gin.Context) {
	result, err := c.deviceService.Profile(ctx, ctx.Param("token"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result.Data))
}

// DeleteDevice removes a device from the gateway account
// @Summary Delete a device
// @Tags devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param token path string true "Device token"
// @Param request body dto.DeleteDeviceRequest true "OTP sent to the device owner"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 502 {object} dto.APIResponse
// @Router /devices/{token} [delete]
func (c *DeviceController) DeleteDevice(ctx *gin.Context) {
	var req dto.DeleteDeviceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	if _, err := c.deviceService.Delete(ctx, ctx.Param("token"), req.OTP); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Device deleted successfully"}))
}

// AccountInfo returns the gateway account details
// @Summary Gateway account
// @Tags devices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse
// @Failure 502 {object} dto.APIResponse
// @Router /devices/account [get]
func (c *DeviceController) AccountInfo(ctx *gin.Context) {
	result, err := c.deviceService.Account(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result.Data))
}
