package domain

// NotificationType classifies an inbound push payload
type NotificationType string

const (
	NotificationTypeOrder       NotificationType = "order"
	NotificationTypePromotional NotificationType = "promotional"
	NotificationTypeEngagement  NotificationType = "engagement"
	NotificationTypeWishlist    NotificationType = "wishlist"
	NotificationTypeAccount     NotificationType = "account"
	NotificationTypeProduct     NotificationType = "product"
)

// IsValid checks if the notification type is a recognized member of the set.
// Unrecognized types fall through to the default route.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeOrder,
		NotificationTypePromotional,
		NotificationTypeEngagement,
		NotificationTypeWishlist,
		NotificationTypeAccount,
		NotificationTypeProduct:
		return true
	default:
		return false
	}
}

// Screen identifies an in-app navigation destination
type Screen string

const (
	ScreenHome          Screen = "Home"
	ScreenOrders        Screen = "Orders"
	ScreenOrderDetail   Screen = "OrderDetail"
	ScreenProducts      Screen = "Products"
	ScreenProductDetail Screen = "ProductDetail"
	ScreenWishlist      Screen = "Wishlist"
	ScreenProfile       Screen = "Profile"
	ScreenLink          Screen = "Link"
)

// PermissionStatus is the tri-state outcome of a notification permission prompt
type PermissionStatus string

const (
	PermissionUnknown   PermissionStatus = ""
	PermissionGranted   PermissionStatus = "granted"
	PermissionDenied    PermissionStatus = "denied"
	PermissionDismissed PermissionStatus = "dismissed"
)

// TokenState represents the push token lifecycle state
type TokenState string

const (
	TokenStateUnregistered TokenState = "UNREGISTERED"
	TokenStateAcquiring    TokenState = "ACQUIRING"
	TokenStateAcquired     TokenState = "ACQUIRED"
	TokenStateRegistering  TokenState = "REGISTERING"
	TokenStateRegistered   TokenState = "REGISTERED"
)

// IsValid checks if the token state is valid
func (s TokenState) IsValid() bool {
	switch s {
	case TokenStateUnregistered,
		TokenStateAcquiring,
		TokenStateAcquired,
		TokenStateRegistering,
		TokenStateRegistered:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a lifecycle transition is valid. A refresh while
// registered re-enters Acquired with the new value; logout returns to
// Unregistered from anywhere without discarding the cached token value.
func (s TokenState) CanTransitionTo(newState TokenState) bool {
	if newState == TokenStateUnregistered {
		return true // logout is always allowed
	}
	switch s {
	case TokenStateUnregistered:
		return newState == TokenStateAcquiring || newState == TokenStateAcquired
	case TokenStateAcquiring:
		return newState == TokenStateAcquired
	case TokenStateAcquired:
		return newState == TokenStateRegistering
	case TokenStateRegistering:
		return newState == TokenStateRegistered || newState == TokenStateAcquired
	case TokenStateRegistered:
		return newState == TokenStateAcquired
	default:
		return false
	}
}
