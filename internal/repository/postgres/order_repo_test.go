package postgres

import (
	"testing"

	"storefront-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestOrderFilterClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.OrderFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no filter",
			filter:    domain.OrderFilter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "status only",
			filter:    domain.OrderFilter{Status: "shipped"},
			wantWhere: " WHERE status = $1",
			wantArgs:  []any{"shipped"},
		},
		{
			name:   "status and search",
			filter: domain.OrderFilter{Status: "pending", Search: " 0170 "},
			wantWhere: " WHERE status = $1 AND (id ILIKE $2 OR customer_id ILIKE $2 OR shipping_address->>'firstName' ILIKE $2 " +
				"OR shipping_address->>'lastName' ILIKE $2 OR shipping_address->>'phoneNumber' ILIKE $2)",
			wantArgs: []any{"pending", "%0170%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := orderFilterClause(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
