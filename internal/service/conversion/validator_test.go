package conversion

import (
	"errors"
	"testing"

	"pagemill/internal/capabilities"
	"pagemill/internal/domain"
	models "pagemill/internal/domain/models/conversion"
)

func newTestValidator(t *testing.T) *validator {
	t.Helper()
	caps, err := capabilities.NewRegistry()
	if err != nil {
		t.Fatalf("capability registry: %v", err)
	}
	return NewValidator(caps).(*validator)
}

func TestValidateConfig(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name      string
		cfg       models.Config
		fileCount int
		wantErr   bool
	}{
		{
			name:      "fast conversion needs no model",
			cfg:       models.Config{Method: models.MethodFast, PageMode: models.PageModeAll},
			fileCount: 3,
		},
		{
			name:      "empty file selection",
			cfg:       models.Config{Method: models.MethodFast, PageMode: models.PageModeAll},
			fileCount: 0,
			wantErr:   true,
		},
		{
			name:      "missing method",
			cfg:       models.Config{PageMode: models.PageModeAll},
			fileCount: 1,
			wantErr:   true,
		},
		{
			name:      "unknown method",
			cfg:       models.Config{Method: "turbo", PageMode: models.PageModeAll},
			fileCount: 1,
			wantErr:   true,
		},
		{
			name:      "aiVision without model",
			cfg:       models.Config{Method: models.MethodAIVision, PageMode: models.PageModeAll},
			fileCount: 1,
			wantErr:   true,
		},
		{
			name: "aiVision with vision-capable model",
			cfg: models.Config{
				Method:   models.MethodAIVision,
				ModelID:  "claude-sonnet-4-5",
				PageMode: models.PageModeAll,
			},
			fileCount: 1,
		},
		{
			name: "aiVision with text-only model",
			cfg: models.Config{
				Method:   models.MethodAIVision,
				ModelID:  "gpt-3.5-turbo",
				PageMode: models.PageModeAll,
			},
			fileCount: 1,
			wantErr:   true,
		},
		{
			name: "aiVision with unknown model",
			cfg: models.Config{
				Method:   models.MethodAIVision,
				ModelID:  "imaginary-model-9000",
				PageMode: models.PageModeAll,
			},
			fileCount: 1,
			wantErr:   true,
		},
		{
			name:      "batch mode without batch size",
			cfg:       models.Config{Method: models.MethodFast, PageMode: models.PageModeBatch},
			fileCount: 1,
			wantErr:   true,
		},
		{
			name: "batch mode with batch size",
			cfg: models.Config{
				Method:    models.MethodFast,
				PageMode:  models.PageModeBatch,
				BatchSize: 20,
			},
			fileCount: 1,
		},
		{
			name:      "missing page mode",
			cfg:       models.Config{Method: models.MethodFast},
			fileCount: 1,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.cfg, tt.fileCount)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error %v does not match domain.ErrValidation", err)
			}
		})
	}
}

func TestValidateNeverMutatesConfig(t *testing.T) {
	v := newTestValidator(t)
	cfg := models.Config{Method: models.MethodAIVision, PageMode: models.PageModeBatch}
	before := cfg

	_ = v.Validate(&cfg, 5)
	if cfg != before {
		t.Errorf("Validate() mutated the config: %+v", cfg)
	}
}
