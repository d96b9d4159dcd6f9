package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"alcocontrol/internal/domain"
	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrActivePeriodExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func pageParams(r *http.Request) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return offset, limit
}

// ----- users -----

type userCreateRequest struct {
	TelegramID int64          `json:"telegram_id"`
	Username   string         `json:"username"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	Settings   map[string]any `json:"settings"`
}

func (s *Server) userCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		user, err := s.userUC.Create(r.Context(), req.TelegramID, req.Username, req.FirstName, req.LastName, req.Settings)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}
}

func (s *Server) usersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit := pageParams(r)
		users, err := s.userUC.List(r.Context(), offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		total, err := s.userUC.Count(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data   []*model.User `json:"data"`
			Total  int           `json:"total"`
			Offset int           `json:"offset"`
			Limit  int           `json:"limit"`
		}{Data: users, Total: total, Offset: offset, Limit: limit})
	}
}

func (s *Server) userGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.userUC.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) userSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var settings map[string]any
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		id := chi.URLParam(r, "id")
		if err := s.userUC.UpdateSettings(r.Context(), id, settings); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ----- drinks -----

type drinkCreateRequest struct {
	UserID         string   `json:"user_id"`
	DrinkType      string   `json:"drink_type"`
	Volume         float64  `json:"volume"`
	AlcoholContent float64  `json:"alcohol_content"`
	Price          *float64 `json:"price"`
	Location       string   `json:"location"`
	Mood           string   `json:"mood"`
	Comment        string   `json:"comment"`
}

func (s *Server) drinkCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req drinkCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		drink, err := s.drinkUC.Log(r.Context(), req.UserID, usecase.DrinkInput{
			DrinkType:      req.DrinkType,
			Volume:         req.Volume,
			AlcoholContent: req.AlcoholContent,
			Price:          req.Price,
			Location:       req.Location,
			Mood:           req.Mood,
			Comment:        req.Comment,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, drink)
	}
}

func (s *Server) drinksListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit := pageParams(r)
		drinks, err := s.drinkUC.List(r.Context(), offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Drink `json:"data"`
		}{Data: drinks})
	}
}

func (s *Server) userDrinksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit := pageParams(r)
		drinks, err := s.drinkUC.ListByUser(r.Context(), chi.URLParam(r, "id"), offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Drink `json:"data"`
		}{Data: drinks})
	}
}

// ----- sober periods -----

type soberOpenRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) soberOpenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req soberOpenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		period, err := s.soberUC.Open(r.Context(), req.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, period)
	}
}

func (s *Server) soberCloseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := s.soberUC.Close(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, period)
	}
}

func (s *Server) soberListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit := pageParams(r)
		periods, err := s.soberUC.List(r.Context(), offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.SoberPeriod `json:"data"`
		}{Data: periods})
	}
}

func (s *Server) userSoberPeriodsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit := pageParams(r)
		periods, err := s.soberUC.ListByUser(r.Context(), chi.URLParam(r, "id"), offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.SoberPeriod `json:"data"`
		}{Data: periods})
	}
}

// currentSoberPeriodHandler returns the active period or a JSON null; having
// no active period is a normal state, not a 404.
func (s *Server) currentSoberPeriodHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := s.soberUC.Current(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data *model.SoberPeriod `json:"data"`
		}{Data: period})
	}
}

// ----- goals -----

type goalCreateRequest struct {
	UserID      string     `json:"user_id"`
	Type        string     `json:"type"`
	TargetValue float64    `json:"target_value"`
	Period      string     `json:"period"`
	EndDate     *time.Time `json:"end_date"`
}

func (s *Server) goalCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req goalCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		goal, err := s.goalUC.Create(r.Context(), req.UserID, model.GoalType(req.Type), req.TargetValue, model.GoalPeriod(req.Period), req.EndDate)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, goal)
	}
}

func (s *Server) goalsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit := pageParams(r)
		goals, err := s.goalUC.List(r.Context(), offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Goal `json:"data"`
		}{Data: goals})
	}
}

func (s *Server) userGoalsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit := pageParams(r)
		goals, err := s.goalUC.ListByUser(r.Context(), chi.URLParam(r, "id"), offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Goal `json:"data"`
		}{Data: goals})
	}
}

// ----- statistics -----

func (s *Server) statisticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			http.Error(w, "user_id is required", http.StatusBadRequest)
			return
		}
		stats, err := s.statsUC.ForUser(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// ----- admin -----

type adminLoginRequest struct {
	Password string `json:"password"`
}

func (s *Server) adminLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if s.adminPassword == "" || req.Password != s.adminPassword {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		token, err := s.auth.Mint(w)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Token string `json:"token"`
		}{Token: token})
	}
}

func (s *Server) adminStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := s.statsUC.Totals(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			TotalUsers int `json:"total_users"`
		}{TotalUsers: users})
	}
}
