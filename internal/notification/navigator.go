package notification

import (
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
)

// LogNavigator records navigation intents in the log. It stands in for the
// UI navigation collaborator when the agent runs headless.
type LogNavigator struct {
	logger *zap.Logger
}

// NewLogNavigator creates a navigator that logs each target
func NewLogNavigator(logger *zap.Logger) *LogNavigator {
	return &LogNavigator{logger: logger}
}

func (n *LogNavigator) Navigate(target domain.NavigationTarget) {
	fields := []zap.Field{zap.String("screen", string(target.Screen))}
	for k, v := range target.Params {
		fields = append(fields, zap.String(k, v))
	}
	n.logger.Info("Navigation intent", fields...)
}
