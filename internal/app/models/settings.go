package models

import "time"

// ResultTemplate selects the visual layout of a result card
type ResultTemplate string

const (
	TemplateModern  ResultTemplate = "modern"
	TemplateClassic ResultTemplate = "classic"
	TemplateMinimal ResultTemplate = "minimal"
)

// Valid reports whether t is a known template
func (t ResultTemplate) Valid() bool {
	return t == TemplateModern || t == TemplateClassic || t == TemplateMinimal
}

// Branding defaults applied when no settings row exists yet
const (
	DefaultPrimaryColor   = "#2563eb"
	DefaultSecondaryColor = "#1e40af"
	DefaultSchoolName     = "My School"
)

// SchoolSettings is the singleton 'school_settings' row
type SchoolSettings struct {
	ID                    string         `json:"id" db:"id"`
	SchoolName            string         `json:"schoolName" db:"school_name" example:"Bright Future Academy"`
	SchoolAddress         string         `json:"schoolAddress" db:"school_address"`
	SchoolEmail           string         `json:"schoolEmail" db:"school_email"`
	SchoolPhone           string         `json:"schoolPhone" db:"school_phone"`
	LogoURL               *string        `json:"logoUrl,omitempty" db:"logo_url"`
	PrincipalSignatureURL *string        `json:"principalSignatureUrl,omitempty" db:"principal_signature_url"`
	PrimaryColor          string         `json:"primaryColor" db:"primary_color" example:"#2563eb"`
	SecondaryColor        string         `json:"secondaryColor" db:"secondary_color" example:"#1e40af"`
	ResultTemplate        ResultTemplate `json:"resultTemplate" db:"result_template" example:"modern"`
	WatermarkText         *string        `json:"watermarkText,omitempty" db:"watermark_text"`
	UpdatedAt             time.Time      `json:"updatedAt" db:"updated_at"`
	UpdatedBy             *string        `json:"updatedBy,omitempty" db:"updated_by"`
}

// DefaultSchoolSettings returns the settings used before an administrator saves any
func DefaultSchoolSettings() *SchoolSettings {
	return &SchoolSettings{
		SchoolName:     DefaultSchoolName,
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		ResultTemplate: TemplateModern,
	}
}
