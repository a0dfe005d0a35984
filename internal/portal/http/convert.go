package http

import (
	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/service"
	"github.com/aussiebroadwan/hoaportal/pkg/portalsdk"
)

func toUserResponse(u domain.User) portalsdk.UserResponse {
	return portalsdk.UserResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Phone:        u.Phone,
		Address:      u.Address,
		UnitNumber:   u.UnitNumber,
		PropertyType: string(u.PropertyType),
		Role:         string(u.Role),
		RoleLabel:    u.Role.Label(),
		Verified:     u.Verified,
		MFAEnabled:   u.HasMFA(),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toUserResponses(users []domain.User) []portalsdk.UserResponse {
	out := make([]portalsdk.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toSessionResponse(u domain.User, s service.Session) portalsdk.SessionResponse {
	return portalsdk.SessionResponse{
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
		ExpiresAt:   s.ExpiresAt,
		User:        toUserResponse(u),
	}
}

func toPaymentResponse(p domain.Payment) portalsdk.PaymentResponse {
	out := portalsdk.PaymentResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		Amount:          p.Amount.String(),
		Method:          string(p.Method),
		Category:        string(p.Category),
		DueDate:         p.DueDate.String(),
		Status:          string(p.Status),
		RejectionReason: p.RejectionReason,
		LateFee:         p.LateFee.String(),
		Penalty:         p.Penalty.String(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.Owner != nil {
		out.Owner = &portalsdk.PaymentOwner{
			FirstName: p.Owner.FirstName,
			LastName:  p.Owner.LastName,
			Email:     p.Owner.Email,
		}
	}
	return out
}

func toPaymentResponses(ps []domain.Payment) []portalsdk.PaymentResponse {
	out := make([]portalsdk.PaymentResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPaymentResponse(p))
	}
	return out
}

func toAnnouncementResponse(a domain.Announcement) portalsdk.AnnouncementResponse {
	return portalsdk.AnnouncementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Priority:  string(a.Priority),
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAnnouncementResponses(as []domain.Announcement) []portalsdk.AnnouncementResponse {
	out := make([]portalsdk.AnnouncementResponse, 0, len(as))
	for _, a := range as {
		out = append(out, toAnnouncementResponse(a))
	}
	return out
}

func toCategoryResponses(cs []domain.CategoryInfo) []portalsdk.CategoryResponse {
	out := make([]portalsdk.CategoryResponse, 0, len(cs))
	for _, c := range cs {
		r := portalsdk.CategoryResponse{Category: string(c.Category), Label: c.Label}
		if c.SuggestedAmount.IsPositive() {
			r.SuggestedAmount = c.SuggestedAmount.String()
		}
		out = append(out, r)
	}
	return out
}
