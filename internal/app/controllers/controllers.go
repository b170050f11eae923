package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/silani/discipline/internal/app/models"
	"github.com/silani/discipline/internal/app/models/dto"
	"github.com/silani/discipline/internal/app/services"
	"github.com/silani/discipline/internal/pkg/fonnte"
)

// StudentService is the student surface used by StudentController
type StudentService interface {
	Create(ctx context.Context, actorID *int64, input services.StudentInput) (*models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context, classID *int64) ([]*models.Student, error)
	Update(ctx context.Context, actorID *int64, id int64, input services.StudentInput) (*models.Student, error)
	Delete(ctx context.Context, actorID *int64, id int64) error
}

// ClassService is the class surface used by ClassController
type ClassService interface {
	Create(ctx context.Context, actorID *int64, input services.ClassInput) (*models.Class, error)
	Get(ctx context.Context, id int64) (*models.Class, error)
	List(ctx context.Context) ([]*models.Class, error)
	Update(ctx context.Context, actorID *int64, id int64, input services.ClassInput) (*models.Class, error)
	Delete(ctx context.Context, actorID *int64, id int64) error
}

// RuleService is the rule catalog surface used by RuleController
type RuleService interface {
	Create(ctx context.Context, actorID *int64, input services.RuleInput) (*models.Rule, error)
	Get(ctx context.Context, id int64) (*models.Rule, error)
	List(ctx context.Context) ([]*models.Rule, error)
	Update(ctx context.Context, actorID *int64, id int64, input services.RuleInput) (*models.Rule, error)
	Delete(ctx context.Context, actorID *int64, id int64) error
}

// ViolationService is the violation workflow used by ViolationController
type ViolationService interface {
	Create(ctx context.Context, actorID *int64, input services.ViolationInput) (*services.CreateViolationResult, error)
	Get(ctx context.Context, id int64) (*models.Violation, error)
	List(ctx context.Context, studentID *int64, status *models.ViolationStatus) ([]*models.ViolationDetail, error)
	Search(ctx context.Context, term string) ([]*models.ViolationDetail, error)
	Report(ctx context.Context, year, month *int, status *models.ViolationStatus) ([]*models.ViolationDetail, error)
	Summary(ctx context.Context, year int) (*models.ViolationSummary, error)
	Update(ctx context.Context, actorID *int64, id int64, input services.ViolationInput) (*models.Violation, error)
	Delete(ctx context.Context, actorID *int64, id int64) error
}

// ActivityLogService is the audit trail surface used by ActivityLogController
type ActivityLogService interface {
	List(ctx context.Context, search, activity string, page, size int) (*services.ActivityLogPage, error)
}

// DeviceService is the device administration surface used by DeviceController
type DeviceService interface {
	List(ctx context.Context) ([]fonnte.Device, error)
	Overview(ctx context.Context) ([]services.DeviceState, error)
	Activate(ctx context.Context, device, deviceToken string) (*fonnte.QRActivation, error)
	Disconnect(ctx context.Context, deviceToken string) (fonnte.Result, error)
	Delete(ctx context.Context, deviceToken, otp string) (fonnte.Result, error)
	Status(ctx context.Context, deviceToken string) (fonnte.Result, error)
	Profile(ctx context.Context, deviceToken string) (fonnte.Result, error)
	Account(ctx context.Context) (fonnte.Result, error)
}

// respondBindError writes a 400 for a request body that failed binding
func respondBindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.NewFailureResponse(dto.HandleValidationError(err)))
}
