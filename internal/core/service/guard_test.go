package service

import (
	"testing"

	"github.com/civiclens/portal-client/internal/core/domain"
)

func TestAuthorize(t *testing.T) {
	admin := adminSession()
	citizen := citizenSession()

	cases := []struct {
		name      string
		session   *domain.Session
		adminOnly bool
		want      GuardDecision
	}{
		{"unauthenticated public view", nil, false, RedirectAuth},
		{"unauthenticated admin view", nil, true, RedirectAuth},
		{"citizen public view", citizen, false, Grant},
		{"citizen admin view", citizen, true, RedirectHome},
		{"admin public view", admin, false, Grant},
		{"admin admin view", admin, true, Grant},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Authorize(tc.session, tc.adminOnly); got != tc.want {
				t.Errorf("Authorize(%v, %v) = %v, want %v", tc.session, tc.adminOnly, got, tc.want)
			}
		})
	}
}

func TestGuardDecision_Target(t *testing.T) {
	if RedirectAuth.Target() != NavAuth {
		t.Error("RedirectAuth should target the auth view")
	}
	if RedirectHome.Target() != NavHome {
		t.Error("RedirectHome should target the home view")
	}
	if Grant.Target() != "" {
		t.Error("Grant has no navigation target")
	}
}
