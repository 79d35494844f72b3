package dto

import "github.com/scholaris/resultportal/internal/app/models"

// UpdateSettingsRequest represents the school branding form
type UpdateSettingsRequest struct {
	SchoolName     string                `json:"schoolName" binding:"required,max=200" example:"Bright Future Academy"`
	SchoolAddress  string                `json:"schoolAddress" binding:"max=300" example:"12 Unity Road, Lagos"`
	SchoolEmail    string                `json:"schoolEmail" binding:"omitempty,email" example:"info@brightfuture.edu"`
	SchoolPhone    string                `json:"schoolPhone" binding:"max=50" example:"+234 800 000 0000"`
	PrimaryColor   string                `json:"primaryColor" binding:"omitempty,hexcolor" example:"#2563eb"`
	SecondaryColor string                `json:"secondaryColor" binding:"omitempty,hexcolor" example:"#1e40af"`
	ResultTemplate models.ResultTemplate `json:"resultTemplate" binding:"omitempty,oneof=modern classic minimal" example:"modern"`
	WatermarkText  *string               `json:"watermarkText" binding:"omitempty,max=100" example:"OFFICIAL"`
}

// Branding asset kinds accepted by the upload endpoint
const (
	AssetLogo      = "logo"
	AssetSignature = "signature"
)

// AssetUploadResponse carries the public URL of an uploaded branding asset
type AssetUploadResponse struct {
	Kind     string                 `json:"kind" example:"logo"`
	URL      string                 `json:"url" example:"/uploads/branding/5b0e.png"`
	Settings *models.SchoolSettings `json:"settings"`
}

// PublicSettingsResponse is the branding shown on both login pages
type PublicSettingsResponse struct {
	SchoolName     string                `json:"schoolName"`
	LogoURL        *string               `json:"logoUrl,omitempty"`
	PrimaryColor   string                `json:"primaryColor"`
	SecondaryColor string                `json:"secondaryColor"`
	ResultTemplate models.ResultTemplate `json:"resultTemplate"`
}

// NewPublicSettings picks the public branding fields out of s
func NewPublicSettings(s *models.SchoolSettings) *PublicSettingsResponse {
	return &PublicSettingsResponse{
		SchoolName:     s.SchoolName,
		LogoURL:        s.LogoURL,
		PrimaryColor:   s.PrimaryColor,
		SecondaryColor: s.SecondaryColor,
		ResultTemplate: s.ResultTemplate,
	}
}
