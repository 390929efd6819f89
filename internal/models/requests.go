package models

import "encoding/json"

type UploadResponse struct {
	CV         *CV    `json:"cv"`
	SchemaType string `json:"schema_type"`
	Message    string `json:"message"`
}

type GenerateRequest struct {
	TemplateName string `json:"templateName" validate:"required,endswith=.docx"`
	OutputName   string `json:"outputName" validate:"omitempty,max=200"`
}

type GenerateFormRequest struct {
	TemplateName string   `json:"templateName" validate:"required,endswith=.docx"`
	OutputName   string   `json:"outputName" validate:"omitempty,max=200"`
	Form         FormData `json:"form"`
}

type GenerateCustomRequest struct {
	TemplateName string          `json:"templateName" validate:"required,endswith=.docx"`
	OutputName   string          `json:"outputName" validate:"omitempty,max=200"`
	Data         json.RawMessage `json:"data" validate:"required"`
}

type TemplatesResponse struct {
	Templates []string `json:"templates"`
}
