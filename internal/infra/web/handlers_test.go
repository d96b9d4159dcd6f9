//go:build !integration

package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"alcocontrol/internal/domain"
	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/usecase"
)

func testLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

type serverStubs struct {
	users  *stubUserUC
	drinks *stubDrinkUC
	sober  *stubSoberUC
	goals  *stubGoalUC
	stats  *stubStatsUC
}

func newTestServer() (*Server, *serverStubs) {
	st := &serverStubs{
		users:  &stubUserUC{},
		drinks: &stubDrinkUC{},
		sober:  &stubSoberUC{},
		goals:  &stubGoalUC{},
		stats:  &stubStatsUC{},
	}
	auth := NewAuthManager("test-secret", false, time.Hour)
	srv := NewServer(st.users, st.drinks, st.sober, st.goals, st.stats, auth, "hunter2", testLogger())
	return srv, st
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	srv.Router(5 * time.Second).ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer()
	rec := doRequest(t, srv, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandlers(t *testing.T) {
	t.Run("create returns 201 with the new user", func(t *testing.T) {
		srv, st := newTestServer()
		st.users.CreateFunc = func(ctx context.Context, tgID int64, username, firstName, lastName string, settings map[string]any) (*model.User, error) {
			u, _ := model.NewUser("u-1", tgID, username, firstName, lastName)
			return u, nil
		}

		rec := doRequest(t, srv, http.MethodPost, "/users/", `{"telegram_id":42,"username":"alice"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var got model.User
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != "u-1" || got.TelegramID != 42 {
			t.Errorf("unexpected user payload: %+v", got)
		}
	})

	t.Run("create maps a duplicate to 409", func(t *testing.T) {
		srv, st := newTestServer()
		st.users.CreateFunc = func(ctx context.Context, tgID int64, username, firstName, lastName string, settings map[string]any) (*model.User, error) {
			return nil, domain.ErrAlreadyExists
		}

		rec := doRequest(t, srv, http.MethodPost, "/users/", `{"telegram_id":42}`)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("create rejects a malformed body", func(t *testing.T) {
		srv, _ := newTestServer()
		rec := doRequest(t, srv, http.MethodPost, "/users/", `{not json`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("get maps an unknown id to 404", func(t *testing.T) {
		srv, _ := newTestServer()
		rec := doRequest(t, srv, http.MethodGet, "/users/missing", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("list forwards pagination params", func(t *testing.T) {
		srv, st := newTestServer()
		var gotOffset, gotLimit int
		st.users.ListFunc = func(ctx context.Context, offset, limit int) ([]*model.User, error) {
			gotOffset, gotLimit = offset, limit
			return nil, nil
		}

		rec := doRequest(t, srv, http.MethodGet, "/users/?offset=20&limit=10", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotOffset != 20 || gotLimit != 10 {
			t.Errorf("expected offset=20 limit=10, got offset=%d limit=%d", gotOffset, gotLimit)
		}
	})

	t.Run("settings update returns 204", func(t *testing.T) {
		srv, st := newTestServer()
		st.users.UpdateSettingsFunc = func(ctx context.Context, id string, settings map[string]any) error {
			if id != "u-1" {
				t.Errorf("expected id u-1, got %q", id)
			}
			return nil
		}

		rec := doRequest(t, srv, http.MethodPut, "/users/u-1/settings", `{"timezone":"UTC"}`)
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})
}

func TestDrinkHandlers(t *testing.T) {
	t.Run("create returns 201", func(t *testing.T) {
		srv, st := newTestServer()
		st.drinks.LogFunc = func(ctx context.Context, userID string, in usecase.DrinkInput) (*model.Drink, error) {
			return model.NewDrink("d-1", userID, in.DrinkType, in.Volume, in.AlcoholContent)
		}

		rec := doRequest(t, srv, http.MethodPost, "/drinks/", `{"user_id":"u-1","drink_type":"beer","volume":500,"alcohol_content":5}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("create maps validation failures to 400", func(t *testing.T) {
		srv, st := newTestServer()
		st.drinks.LogFunc = func(ctx context.Context, userID string, in usecase.DrinkInput) (*model.Drink, error) {
			return nil, domain.ErrInvalidArgument
		}

		rec := doRequest(t, srv, http.MethodPost, "/drinks/", `{"user_id":"u-1","drink_type":"beer","volume":-1}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("create maps an unknown user to 404", func(t *testing.T) {
		srv, _ := newTestServer()
		rec := doRequest(t, srv, http.MethodPost, "/drinks/", `{"user_id":"missing","drink_type":"beer","volume":500,"alcohol_content":5}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestSoberPeriodHandlers(t *testing.T) {
	t.Run("open returns 201 with an active period", func(t *testing.T) {
		srv, st := newTestServer()
		st.sober.OpenFunc = func(ctx context.Context, userID string) (*model.SoberPeriod, error) {
			return model.NewSoberPeriod("p-1", userID)
		}

		rec := doRequest(t, srv, http.MethodPost, "/sober-periods/", `{"user_id":"u-1"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var got model.SoberPeriod
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !got.IsActive {
			t.Error("expected an active period in the response")
		}
	})

	t.Run("open maps an existing active period to 409", func(t *testing.T) {
		srv, st := newTestServer()
		st.sober.OpenFunc = func(ctx context.Context, userID string) (*model.SoberPeriod, error) {
			return nil, domain.ErrActivePeriodExists
		}

		rec := doRequest(t, srv, http.MethodPost, "/sober-periods/", `{"user_id":"u-1"}`)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("close returns the closed period", func(t *testing.T) {
		srv, st := newTestServer()
		st.sober.CloseFunc = func(ctx context.Context, periodID string) (*model.SoberPeriod, error) {
			p, _ := model.NewSoberPeriod(periodID, "u-1")
			p.Close(time.Now())
			return p, nil
		}

		rec := doRequest(t, srv, http.MethodPost, "/sober-periods/p-1/close", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var got model.SoberPeriod
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.IsActive || got.EndTime == nil {
			t.Errorf("expected a closed period, got %+v", got)
		}
	})

	t.Run("current returns a null body when nothing is active", func(t *testing.T) {
		srv, _ := newTestServer()
		rec := doRequest(t, srv, http.MethodGet, "/users/u-1/sober-periods/current", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var got struct {
			Data *model.SoberPeriod `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Data != nil {
			t.Errorf("expected null data, got %+v", got.Data)
		}
	})
}

func TestGoalHandlers(t *testing.T) {
	t.Run("create returns 201", func(t *testing.T) {
		srv, st := newTestServer()
		st.goals.CreateFunc = func(ctx context.Context, userID string, goalType model.GoalType, targetValue float64, period model.GoalPeriod, endDate *time.Time) (*model.Goal, error) {
			return model.NewGoal("g-1", userID, goalType, targetValue, period)
		}

		rec := doRequest(t, srv, http.MethodPost, "/goals/", `{"user_id":"u-1","type":"sober_days","target_value":30,"period":"monthly"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("create maps a bad goal type to 400", func(t *testing.T) {
		srv, st := newTestServer()
		st.goals.CreateFunc = func(ctx context.Context, userID string, goalType model.GoalType, targetValue float64, period model.GoalPeriod, endDate *time.Time) (*model.Goal, error) {
			return nil, domain.ErrInvalidArgument
		}

		rec := doRequest(t, srv, http.MethodPost, "/goals/", `{"user_id":"u-1","type":"steps","target_value":30,"period":"monthly"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestStatisticsHandler(t *testing.T) {
	t.Run("returns the computed summary", func(t *testing.T) {
		srv, st := newTestServer()
		st.stats.ForUserFunc = func(ctx context.Context, userID string) (model.Statistics, error) {
			return model.Statistics{TotalAlcohol: 41, DaysWithDrinks: 2, SoberDays: 3}, nil
		}

		rec := doRequest(t, srv, http.MethodGet, "/statistics/?user_id=u-1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var got model.Statistics
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.TotalAlcohol != 41 || got.DaysWithDrinks != 2 || got.SoberDays != 3 {
			t.Errorf("unexpected statistics: %+v", got)
		}
	})

	t.Run("requires a user_id", func(t *testing.T) {
		srv, _ := newTestServer()
		rec := doRequest(t, srv, http.MethodGet, "/statistics/", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAdminHandlers(t *testing.T) {
	t.Run("login with the wrong password is forbidden", func(t *testing.T) {
		srv, _ := newTestServer()
		rec := doRequest(t, srv, http.MethodPost, "/admin/login", `{"password":"wrong"}`)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("stats without a token is unauthorized", func(t *testing.T) {
		srv, _ := newTestServer()
		rec := doRequest(t, srv, http.MethodGet, "/admin/stats", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("login token grants access to stats", func(t *testing.T) {
		srv, st := newTestServer()
		st.stats.TotalsFunc = func(ctx context.Context) (int, error) { return 12, nil }

		rec := doRequest(t, srv, http.MethodPost, "/admin/login", `{"password":"hunter2"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("login: expected 200, got %d", rec.Code)
		}
		var login struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&login); err != nil {
			t.Fatalf("decode login: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+login.Token)
		rec2 := httptest.NewRecorder()
		srv.Router(5 * time.Second).ServeHTTP(rec2, req)
		if rec2.Code != http.StatusOK {
			t.Fatalf("stats: expected 200, got %d: %s", rec2.Code, rec2.Body.String())
		}
		var got struct {
			TotalUsers int `json:"total_users"`
		}
		if err := json.NewDecoder(rec2.Body).Decode(&got); err != nil {
			t.Fatalf("decode stats: %v", err)
		}
		if got.TotalUsers != 12 {
			t.Errorf("expected 12 users, got %d", got.TotalUsers)
		}
	})
}
