package postgres

import (
	"fmt"
	"testing"

	"github.com/lib/pq"

	"budget-analytics/internal/errors"
)

func TestClassifyQueryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.Type
	}{
		{
			name: "pq cancel code",
			err:  &pq.Error{Code: "57014", Message: "canceling statement due to statement timeout"},
			want: errors.TypeTimeout,
		},
		{
			name: "wrapped pq cancel code",
			err:  fmt.Errorf("select: %w", &pq.Error{Code: "57014"}),
			want: errors.TypeTimeout,
		},
		{
			name: "timeout text without code",
			err:  fmt.Errorf("pq: canceling statement due to statement timeout"),
			want: errors.TypeTimeout,
		},
		{
			name: "generic failure",
			err:  fmt.Errorf("no pg_hba.conf entry"),
			want: errors.TypeDatabase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyQueryError(tt.err)
			if !errors.IsType(got, tt.want) {
				t.Errorf("classifyQueryError(%v) = %v, want type %s", tt.err, got, tt.want)
			}
			if e, ok := got.(*errors.Error); !ok || !e.Retryable {
				t.Errorf("query errors must be retryable: %v", got)
			}
		})
	}
}
