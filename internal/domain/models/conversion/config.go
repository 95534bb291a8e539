package conversion

// Method selects the server-side conversion engine.
type Method string

const (
	// MethodFast is the built-in rule-based converter.
	MethodFast Method = "fast"
	// MethodAIVision converts pages through a vision-capable model.
	MethodAIVision Method = "aiVision"
)

// PageMode controls how the remote engine walks a document's pages.
type PageMode string

const (
	PageModeAll   PageMode = "all"
	PageModeBatch PageMode = "batch"
)

// Config is the conversion configuration submitted alongside a file set.
// Every option is advisory to the remote engine; the orchestrator only
// validates shape and required-field presence.
type Config struct {
	Method             Method   `json:"method"`
	ModelID            string   `json:"model_id,omitempty"` // required iff Method == MethodAIVision
	PromptText         string   `json:"prompt_text,omitempty"`
	EnableOCR          bool     `json:"enable_ocr"`
	PreserveFormatting bool     `json:"preserve_formatting"`
	ExtractTables      bool     `json:"extract_tables"`
	ExtractImages      bool     `json:"extract_images"`
	PageMode           PageMode `json:"page_mode"`
	BatchSize          int      `json:"batch_size,omitempty"` // meaningful iff PageMode == PageModeBatch
}
