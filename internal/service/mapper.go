package service

import (
	"github.com/flicky/storefront-api/internal/dto"
	"github.com/flicky/storefront-api/internal/model"
)

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID: user.ID, Email: user.Email,
		FirstName: user.FirstName, LastName: user.LastName, Role: user.Role,
	}
}

func toCategoryResponse(c *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:                 p.ID,
		Title:              p.Title,
		Slug:               p.Slug,
		Description:        p.Description,
		PriceCents:         p.PriceCents,
		Price:              dto.Money(p.PriceCents),
		OriginalPriceCents: p.OriginalPriceCents,
		DiscountPercent:    p.DiscountPercent,
		Inventory:          p.Inventory,
		InStock:            p.Inventory > 0,
		CategoryID:         p.CategoryID,
		ImageURL:           p.ImageURL,
		Rating:             p.Rating,
		ReviewCount:        p.ReviewCount,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.OriginalPriceCents != nil {
		original := dto.Money(*p.OriginalPriceCents)
		resp.OriginalPrice = &original
	}
	return resp
}

func toAddressResponse(a *model.Address) dto.AddressResponse {
	return dto.AddressResponse{
		ID: a.ID, FullName: a.FullName, Phone: a.Phone, Line1: a.Line1, Line2: a.Line2,
		City: a.City, State: a.State, PostalCode: a.PostalCode, Country: a.Country,
		IsDefault: a.IsDefault, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

func toOrderResponse(o *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		Status:         o.Status,
		PaymentStatus:  o.PaymentStatus,
		SubtotalCents:  o.SubtotalCents,
		TaxCents:       o.TaxCents,
		ShippingCents:  o.ShippingCents,
		DiscountCents:  o.DiscountCents,
		TotalCents:     o.TotalCents,
		Total:          dto.Money(o.TotalCents),
		PaymentOrderID: o.PaymentOrderID,
		PaymentID:      o.PaymentID,
		TrackingNumber: o.TrackingNumber,
		ShippedAt:      o.ShippedAt,
		DeliveredAt:    o.DeliveredAt,
		Items:          make([]dto.OrderItemResponse, 0, len(o.Items)),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if o.ShippingAddress != nil {
		addr := toAddressResponse(o.ShippingAddress)
		resp.ShippingAddress = &addr
	}
	if o.BillingAddress != nil {
		addr := toAddressResponse(o.BillingAddress)
		resp.BillingAddress = &addr
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductTitle:   item.ProductTitle,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			UnitPrice:      dto.Money(item.UnitPriceCents),
			TotalCents:     item.TotalCents,
			Total:          dto.Money(item.TotalCents),
		})
	}
	return resp
}

func toReviewResponse(r *model.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID: r.ID, UserID: r.UserID, ProductID: r.ProductID, Rating: r.Rating,
		Title: r.Title, Comment: r.Comment, CreatedAt: r.CreatedAt,
	}
}
