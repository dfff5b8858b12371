package handler

import (
	"github.com/whitebox/contacts-service/internal/core/domain"
	"github.com/whitebox/contacts-service/internal/core/ports"
)

// --- Request → Service input ---

func toCreateContactInput(req createContactRequest) ports.CreateContactInput {
	return ports.CreateContactInput{
		ContactUserID: req.ContactUserID,
		Notes:         req.Notes,
		Tags:          req.Tags,
	}
}

func toUpdateContactInput(req updateContactRequest) ports.UpdateContactInput {
	return ports.UpdateContactInput{
		Notes: req.Notes,
		Tags:  req.Tags,
	}
}

// --- Service result → HTTP response ---

func toContactResponse(c *domain.Contact) contactResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := contactResponse{
		ID:            c.ID,
		UserID:        c.UserID,
		ContactUserID: c.ContactUserID,
		Notes:         c.Notes,
		Tags:          tags,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt.UTC(),
		UpdatedAt:     c.UpdatedAt.UTC(),
	}
	if c.ContactUser != nil {
		resp.ContactUser = &contactUserResponse{
			ID:    c.ContactUser.ID,
			Name:  optionalString(c.ContactUser.Name),
			Email: c.ContactUser.Email,
		}
	}
	return resp
}

func toContactPageResponse(p *ports.ContactPage) contactPageResponse {
	data := make([]contactResponse, len(p.Data))
	for i, c := range p.Data {
		data[i] = toContactResponse(c)
	}
	return contactPageResponse{Data: data, Meta: p.Meta}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  optionalString(u.Name),
		Role:  string(u.Role),
	}
}

func toAuthResponse(r *ports.AuthResult) authResponse {
	return authResponse{
		User:        toUserResponse(r.User),
		AccessToken: r.Token,
	}
}

// optionalString renders an unset name as JSON null.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
