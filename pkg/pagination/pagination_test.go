package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, target string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext_DefaultsToFullSet(t *testing.T) {
	p := paramsFor(t, "/")
	if p.Limit != 0 {
		t.Errorf("expected limit 0 (full set), got %d", p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestFromContext_ExplicitLimitAndOffset(t *testing.T) {
	p := paramsFor(t, "/?limit=25&offset=50")
	if p.Limit != 25 || p.Offset != 50 {
		t.Errorf("expected limit=25 offset=50, got limit=%d offset=%d", p.Limit, p.Offset)
	}
}

func TestFromContext_ClampsLimit(t *testing.T) {
	p := paramsFor(t, "/?limit=99999")
	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_NegativeValues(t *testing.T) {
	p := paramsFor(t, "/?limit=-1&offset=-5")
	if p.Limit != 0 || p.Offset != 0 {
		t.Errorf("expected negatives normalized to 0, got limit=%d offset=%d", p.Limit, p.Offset)
	}
}

func TestSQL(t *testing.T) {
	cases := []struct {
		p    Params
		want string
	}{
		{Params{}, ""},
		{Params{Offset: 10}, "OFFSET 10"},
		{Params{Limit: 20}, "LIMIT 20 OFFSET 0"},
		{Params{Limit: 20, Offset: 40}, "LIMIT 20 OFFSET 40"},
	}
	for _, tc := range cases {
		if got := tc.p.SQL(); got != tc.want {
			t.Errorf("Params%+v.SQL() = %q, want %q", tc.p, got, tc.want)
		}
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	r := NewResponse(nil, 100, 20, 0)
	if !r.HasMore {
		t.Error("expected HasMore true when more pages remain")
	}

	r = NewResponse(nil, 100, 20, 80)
	if r.HasMore {
		t.Error("expected HasMore false on last page")
	}

	// Full-set response never has more.
	r = NewResponse(nil, 100, 0, 0)
	if r.HasMore {
		t.Error("expected HasMore false for full-set response")
	}
}
