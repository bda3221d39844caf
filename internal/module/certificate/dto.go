package certificate

import "github.com/certvault/giftcert/internal/domain"

// CreateCertificateRequest represents the input for creating a certificate.
type CreateCertificateRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description" binding:"required,max=1000"`
	Price       float64  `json:"price" binding:"required,gt=0,lte=99999999.99"`
	Duration    int      `json:"duration" binding:"required,gt=0"`
	Tags        []string `json:"tags" binding:"omitempty,dive,max=100"`
}

func (r CreateCertificateRequest) toInput() domain.CreateCertificateInput {
	return domain.CreateCertificateInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Duration:    r.Duration,
		TagNames:    r.Tags,
	}
}

// UpdateCertificateRequest represents a partial update. Omitted fields are
// left unchanged. An omitted or null tags field keeps the current tags and
// an empty list removes them all.
type UpdateCertificateRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description" binding:"omitempty,min=1,max=1000"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0,lte=99999999.99"`
	Duration    *int     `json:"duration" binding:"omitempty,gt=0"`
	Tags        []string `json:"tags" binding:"omitempty,dive,max=100"`
}

func (r UpdateCertificateRequest) toInput() domain.UpdateCertificateInput {
	return domain.UpdateCertificateInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Duration:    r.Duration,
		TagNames:    r.Tags,
	}
}
