package query

import (
	"time"

	"github.com/gyaneshwarpardhi/navigation/internal/navigator"
)

// Query is the canonical input model for a route request.
type Query struct {
	ID         string         `json:"id"`
	Kind       navigator.Kind `json:"kind" validate:"required,oneof=distance time"`
	From       string         `json:"from" validate:"required,max=256"`
	To         string         `json:"to" validate:"required,max=256"`
	Annotate   bool           `json:"annotate"` // return the map with the route in bold
	ReceivedAt time.Time      `json:"-"`
}
