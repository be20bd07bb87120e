package notification

import (
	"github.com/jafarshop/storefront/internal/domain"
)

// Route maps a delivered payload to its navigation target. It is a pure
// function: foreground delivery, background-tap delivery and the cold-start
// initial-notification check all resolve through this single mapping.
func Route(payload domain.NotificationPayload) domain.NavigationTarget {
	data := payload.Data

	switch domain.NotificationType(data.Type) {
	case domain.NotificationTypeOrder:
		if data.OrderID != "" {
			return domain.NavigationTarget{
				Screen: domain.ScreenOrderDetail,
				Params: map[string]string{"orderId": data.OrderID},
			}
		}
		return domain.NavigationTarget{Screen: domain.ScreenOrders}

	case domain.NotificationTypePromotional, domain.NotificationTypeEngagement:
		return domain.NavigationTarget{Screen: domain.ScreenProducts}

	case domain.NotificationTypeWishlist:
		return domain.NavigationTarget{Screen: domain.ScreenWishlist}

	case domain.NotificationTypeAccount:
		return domain.NavigationTarget{Screen: domain.ScreenProfile}

	case domain.NotificationTypeProduct:
		if data.ProductID != "" {
			return domain.NavigationTarget{
				Screen: domain.ScreenProductDetail,
				Params: map[string]string{"productId": data.ProductID},
			}
		}
		return domain.NavigationTarget{Screen: domain.ScreenProducts}
	}

	// Unrecognized type: a literal link wins over the home fallback.
	if data.Link != "" {
		return domain.NavigationTarget{
			Screen: domain.ScreenLink,
			Params: map[string]string{"link": data.Link},
		}
	}

	return domain.NavigationTarget{Screen: domain.ScreenHome}
}
