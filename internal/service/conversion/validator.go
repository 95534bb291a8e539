package conversion

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"pagemill/internal/capabilities"
	"pagemill/internal/config"
	"pagemill/internal/domain"
	models "pagemill/internal/domain/models/conversion"
	convSvc "pagemill/internal/domain/services/conversion"
)

// validator implements the ConfigValidator interface. It is pure and makes
// no network calls; the capability registry is loaded from embedded files.
type validator struct {
	capabilities *capabilities.Registry
}

// NewValidator creates a new conversion-config validator
func NewValidator(caps *capabilities.Registry) convSvc.ConfigValidator {
	return &validator{capabilities: caps}
}

// Validate checks the configuration's shape and required fields against the
// chosen method. It never auto-corrects: a bad configuration is reported,
// not repaired.
func (v *validator) Validate(cfg *models.Config, fileCount int) error {
	if cfg == nil {
		return &domain.ValidationError{Message: "conversion config is required"}
	}
	if fileCount <= 0 {
		return &domain.ValidationError{Message: "no files selected for conversion"}
	}
	if fileCount > config.MaxSubmissionFiles {
		return &domain.ValidationError{
			Message: fmt.Sprintf("too many files in one submission (%d > %d)", fileCount, config.MaxSubmissionFiles),
		}
	}

	err := validation.ValidateStruct(cfg,
		validation.Field(&cfg.Method,
			validation.Required,
			validation.In(models.MethodFast, models.MethodAIVision),
		),
		validation.Field(&cfg.ModelID,
			validation.When(cfg.Method == models.MethodAIVision,
				validation.Required.Error("model is required for aiVision conversion"),
			),
		),
		validation.Field(&cfg.PageMode,
			validation.Required,
			validation.In(models.PageModeAll, models.PageModeBatch),
		),
		validation.Field(&cfg.BatchSize,
			validation.When(cfg.PageMode == models.PageModeBatch,
				validation.Required.Error("batch size is required for batch page mode"),
				validation.Min(1),
			),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if cfg.Method == models.MethodAIVision {
		model, ok := v.capabilities.FindModel(cfg.ModelID)
		if !ok {
			return &domain.ValidationError{
				Message: fmt.Sprintf("unknown model %q", cfg.ModelID),
			}
		}
		if !model.SupportsVision {
			return &domain.ValidationError{
				Message: fmt.Sprintf("model %q does not support vision processing", cfg.ModelID),
			}
		}
	}

	return nil
}
