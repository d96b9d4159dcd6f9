//go:build !integration

package usecase

import "testing"

func TestClampPage(t *testing.T) {
	cases := []struct {
		name                  string
		offset, limit         int
		wantOffset, wantLimit int
	}{
		{"passes valid values through", 10, 50, 10, 50},
		{"negative offset becomes zero", -5, 50, 0, 50},
		{"zero limit falls back to default", 0, 0, 0, defaultPageSize},
		{"negative limit falls back to default", 0, -1, 0, defaultPageSize},
		{"oversized limit falls back to default", 0, maxPageSize + 1, 0, defaultPageSize},
		{"max limit is allowed", 0, maxPageSize, 0, maxPageSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotOffset, gotLimit := clampPage(tc.offset, tc.limit)
			if gotOffset != tc.wantOffset || gotLimit != tc.wantLimit {
				t.Errorf("clampPage(%d, %d) = (%d, %d), want (%d, %d)",
					tc.offset, tc.limit, gotOffset, gotLimit, tc.wantOffset, tc.wantLimit)
			}
		})
	}
}
