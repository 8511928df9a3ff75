package gmail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSearchCriteria_Query(t *testing.T) {
	tests := []struct {
		name     string
		criteria SearchCriteria
		want     string
	}{
		{
			name: "empty",
			want: "",
		},
		{
			name:     "keyword only",
			criteria: SearchCriteria{Keyword: "invoice"},
			want:     "invoice",
		},
		{
			name: "sender unread and date joined with spaces",
			criteria: SearchCriteria{
				From:     "alice@example.com",
				IsUnread: true,
				After:    time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			},
			want: "from:alice@example.com is:unread after:2025/09/01",
		},
		{
			name: "all filters in fixed order",
			criteria: SearchCriteria{
				Keyword:  "report",
				From:     "bob@example.com",
				Subject:  "Quarterly numbers",
				IsUnread: true,
				After:    time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
				Before:   time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
			},
			want: `report from:bob@example.com subject:"Quarterly numbers" is:unread after:2025/01/02 before:2025/03/04`,
		},
		{
			name:     "quotes stripped from subject",
			criteria: SearchCriteria{Subject: `say "hi"`},
			want:     `subject:"say hi"`,
		},
		{
			name:     "display name sender quoted",
			criteria: SearchCriteria{From: "Alice Smith", IsUnread: true},
			want:     `from:"Alice Smith" is:unread`,
		},
		{
			name:     "whitespace only filters ignored",
			criteria: SearchCriteria{Keyword: "  ", From: " "},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Query())
		})
	}
}
